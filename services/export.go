package services

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
)

var registrationCSVHeader = []string{
	"Student Name",
	"Email",
	"Roll Number",
	"Phone",
	"School",
	"Department",
	"Gender",
	"Year of Study",
	"Program",
	"Event Name",
	"Event Category",
	"Event Subcategory",
	"Event Fee",
	"Transaction ID",
	"Registration Status",
	"Registration Date",
	"Registration Time",
}

const (
	csvDateLayout     = "Jan 2, 2006"
	csvTimeLayout     = "3:04 PM"
	csvFilenameLayout = "2006-01-02_15-04"
)

// WriteRegistrationsCSV пишет строку заголовков и по одной строке на заявку.
// Заголовки без кавычек, каждая ячейка данных в двойных кавычках.
func WriteRegistrationsCSV(w io.Writer, list []models.RegistrationDetails) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(registrationCSVHeader, ",")); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range list {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		if _, err := bw.WriteString(csvRow(registrationCSVRecord(&list[i]))); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	return bw.Flush()
}

func registrationCSVRecord(r *models.RegistrationDetails) []string {
	fee := ""
	if r.Event.Fee != 0 {
		fee = strconv.Itoa(r.Event.Fee)
	}
	date, clock := "", ""
	if !r.RegisteredAt.IsZero() {
		date = r.RegisteredAt.Format(csvDateLayout)
		clock = r.RegisteredAt.Format(csvTimeLayout)
	}
	return []string{
		r.Profile.FullName,
		r.Profile.Email,
		r.Profile.RollNumber,
		r.Profile.Phone,
		r.Profile.School,
		r.Profile.Department,
		r.Profile.Gender,
		r.Profile.YearOfStudy,
		r.Profile.Program,
		r.Event.Name,
		string(r.Event.Category),
		string(r.Event.Subcategory),
		fee,
		r.TransactionID,
		string(r.Status),
		date,
		clock,
	}
}

func csvRow(cells []string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// RegistrationsExportFilename — имя файла общей выгрузки.
func RegistrationsExportFilename(now time.Time) string {
	return "registrations_" + now.Format(csvFilenameLayout) + ".csv"
}

// EventRegistrationsExportFilename — имя файла выгрузки координатора.
func EventRegistrationsExportFilename(eventName string) string {
	return eventName + "_registrations.csv"
}
