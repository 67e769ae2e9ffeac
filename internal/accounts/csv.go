package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for chart-of-accounts.csv.
var Header = []string{"code", "name", "type", "parent_code", "description"}

const (
	numFields = 5
	colCode   = 0
	colName   = 1
	colType   = 2
	colParent = 3
	colDesc   = 4
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colParent] = acct.ParentCode
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colCode] == "" {
		return model.Account{}, fmt.Errorf("missing account code")
	}
	typ := model.AccountType(record[colType])
	if _, err := Classify(typ); err != nil {
		return model.Account{}, fmt.Errorf("account %s: %w", record[colCode], err)
	}
	return model.Account{
		Code:        record[colCode],
		Name:        record[colName],
		Type:        typ,
		ParentCode:  record[colParent],
		Description: record[colDesc],
	}, nil
}
