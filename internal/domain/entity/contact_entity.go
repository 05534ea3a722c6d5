package entity

import "time"

// BirthdayLayout is the wire format of Contact.BirthdayDate.
const BirthdayLayout = "2006-01-02"

// Contact is a directory entry managed through the contacts API.
// Only month and day of BirthdayDate are meaningful for birthday queries.
type Contact struct {
	ID           int64
	FirstName    string
	LastName     string
	BirthdayDate time.Time
	Email        string
	PhoneNumber  string
	Note         *string
}

// ContactFields carries the mutable fields of a Contact.
type ContactFields struct {
	FirstName    string
	LastName     string
	BirthdayDate time.Time
	Email        string
	PhoneNumber  string
	Note         *string
}

// Apply overwrites every mutable field of c. ID is left untouched.
func (f ContactFields) Apply(c *Contact) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.BirthdayDate = f.BirthdayDate
	c.Email = f.Email
	c.PhoneNumber = f.PhoneNumber
	c.Note = f.Note
}

// NewContact builds an unsaved Contact from fields.
func NewContact(f ContactFields) *Contact {
	c := &Contact{}
	f.Apply(c)
	return c
}
