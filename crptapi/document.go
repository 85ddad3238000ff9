/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package crptapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the layout of dates in documents.
const DateLayout = "2006-01-02"

// Date is a calendar date serialized in the "yyyy-MM-dd" format. Zero Date is serialized as null.
type Date struct {
	time.Time
}

// NewDate returns a Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the date part of t.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// String returns the date in the "yyyy-MM-dd" format.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON implements the json.Marshaler interface.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	*d = Date{t}
	return nil
}

// Description contains the document description.
type Description struct {
	ParticipantInn string `json:"participantInn"`
}

// Product is a product item of the document.
type Product struct {
	CertificateDocument       string `json:"certificate_document"`
	CertificateDocumentDate   Date   `json:"certificate_document_date"`
	CertificateDocumentNumber string `json:"certificate_document_number"`
	OwnerInn                  string `json:"owner_inn"`
	ProducerInn               string `json:"producer_inn"`
	ProductionDate            Date   `json:"production_date"`
	TnvedCode                 string `json:"tnved_code"`
	UitCode                   string `json:"uit_code"`
	UituCode                  string `json:"uitu_code"`
}

// Document is a document for introducing goods into circulation.
type Document struct {
	Description    *Description `json:"description"`
	DocID          string       `json:"doc_id"`
	DocStatus      string       `json:"doc_status"`
	DocType        string       `json:"doc_type"`
	ImportRequest  bool         `json:"importRequest"`
	OwnerInn       string       `json:"owner_inn"`
	ParticipantInn string       `json:"participant_inn"`
	ProducerInn    string       `json:"producer_inn"`
	ProductionDate Date         `json:"production_date"`
	ProductionType string       `json:"production_type"`
	Products       []Product    `json:"products"`
	RegDate        Date         `json:"reg_date"`
	RegNumber      string       `json:"reg_number"`
}
