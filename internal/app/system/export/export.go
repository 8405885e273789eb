// Package export produces the CSV and receipt files admins and members
// download.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/fitzone/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"

	fileDate = "2006-01-02"
	na       = "N/A"
	unknown  = "Unknown"
)

// ErrEmpty is returned instead of a file with only a header.
var ErrEmpty = errors.New("nothing to export")

// File is a generated download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

var (
	membersHeader = []string{"Name", "Email", "Phone", "Date of Birth", "Package", "Status", "Join Date"}
	billsHeader   = []string{"Member Name", "Package", "Amount", "Due Date", "Status", "Created Date"}
)

func day(t time.Time) string {
	if t.IsZero() {
		return na
	}
	return t.Format(fileDate)
}

func dayPtr(t *time.Time) string {
	if t == nil {
		return na
	}
	return day(*t)
}

func amount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

// writeCSV quotes fields per RFC 4180, so commas, quotes and newlines in a
// value never shift columns.
func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MembersCSV exports members. on names the file members_<date>.csv.
func MembersCSV(members []models.Member, on time.Time) (File, error) {
	if len(members) == 0 {
		return File{}, ErrEmpty
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		dob := m.DateOfBirth
		if dob == "" {
			dob = na
		}
		rows = append(rows, []string{
			m.Name, m.Email, m.Phone, dob, string(m.Package), m.Status, day(m.JoinDate),
		})
	}
	body, err := writeCSV(membersHeader, rows)
	if err != nil {
		return File{}, err
	}
	return File{Name: "members_" + on.Format(fileDate) + ".csv", ContentType: ContentTypeCSV, Body: body}, nil
}

// BillsCSV exports bills. Bills whose member is gone show "Unknown".
func BillsCSV(bills []models.Bill, names map[primitive.ObjectID]string, on time.Time) (File, error) {
	if len(bills) == 0 {
		return File{}, ErrEmpty
	}
	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		name, ok := names[b.MemberID]
		if !ok {
			name = unknown
		}
		rows = append(rows, []string{
			name, string(b.Package), amount(b.Amount), dayPtr(b.DueDate), b.Status, day(b.CreatedAt),
		})
	}
	body, err := writeCSV(billsHeader, rows)
	if err != nil {
		return File{}, err
	}
	return File{Name: "bills_" + on.Format(fileDate) + ".csv", ContentType: ContentTypeCSV, Body: body}, nil
}

// Receipt renders a plain-text payment receipt. member may be nil when the
// profile was deleted.
func Receipt(gymName string, b models.Bill, member *models.Member, issued time.Time) File {
	if strings.TrimSpace(gymName) == "" {
		gymName = "FitZone Gym"
	}
	rule := strings.Repeat("=", 44)

	var sb strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&sb, format+"\n", args...)
	}

	line("%s", rule)
	line("%s", strings.ToUpper(gymName)+" - PAYMENT RECEIPT")
	line("%s", rule)
	line("Receipt ID: %s", b.ID.Hex())
	line("Date: %s", day(issued))
	line("")
	line("Member Details:")
	if member != nil {
		line("Name: %s", member.Name)
		line("Email: %s", member.Email)
		line("Phone: %s", member.Phone)
	} else {
		line("Name: %s", unknown)
	}
	line("")
	line("Bill Details:")
	line("Package: %s", b.Package)
	line("Amount: ₹%s", amount(b.Amount))
	line("Status: %s", b.Status)
	line("Due Date: %s", dayPtr(b.DueDate))
	if b.PaidDate != nil {
		line("Paid Date: %s", day(*b.PaidDate))
	}
	line("")
	line("Thank you for your payment!")
	line("%s", rule)

	return File{
		Name:        "receipt_" + b.ID.Hex() + ".txt",
		ContentType: ContentTypeText,
		Body:        []byte(sb.String()),
	}
}
