package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/bonhomie-fest/models"
)

func TestWriteRegistrationsCSV_RowPerFilteredRegistration(t *testing.T) {
	filtered := ApplyRegistrationFilter(sampleDetails(), RegistrationFilter{Status: "confirmed"})

	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, filtered); err != nil {
		t.Fatalf("WriteRegistrationsCSV: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if len(lines) != len(filtered)+1 {
		t.Fatalf("expected header + %d rows, got %d lines", len(filtered), len(lines))
	}
	if lines[0] != strings.Join(registrationCSVHeader, ",") {
		t.Errorf("header must be unquoted, got %q", lines[0])
	}

	want := `"Asha","Asha@college.edu","RAsha","","SOET","CO","Female","2","Diploma Engineering",` +
		`"Hackathon","Technical","Group","300","UPI00000Asha","confirmed","Feb 14, 2025","3:04 PM"`
	if lines[1] != want {
		t.Errorf("unexpected row:\n got %s\nwant %s", lines[1], want)
	}
}

func TestWriteRegistrationsCSV_EscapesQuotesAndBlankFee(t *testing.T) {
	r := detail(1, models.RegistrationPending, 0, "SOA", `Ravi "RJ"`)

	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, []models.RegistrationDetails{r}); err != nil {
		t.Fatalf("WriteRegistrationsCSV: %v", err)
	}
	row := strings.Split(buf.String(), "\n")[1]

	if !strings.HasPrefix(row, `"Ravi ""RJ""",`) {
		t.Errorf("quotes not doubled: %s", row)
	}
	if !strings.Contains(row, `"Group","","UPI`) {
		t.Errorf("zero fee should be an empty cell: %s", row)
	}
}

func TestWriteRegistrationsCSV_EmptyListIsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, nil); err != nil {
		t.Fatalf("WriteRegistrationsCSV: %v", err)
	}
	if strings.Contains(buf.String(), "\n") {
		t.Errorf("expected only the header, got %q", buf.String())
	}
}

func TestExportFilenames(t *testing.T) {
	now := time.Date(2025, 2, 14, 9, 5, 0, 0, time.UTC)
	if got := RegistrationsExportFilename(now); got != "registrations_2025-02-14_09-05.csv" {
		t.Errorf("RegistrationsExportFilename = %q", got)
	}
	if got := EventRegistrationsExportFilename("Hackathon"); got != "Hackathon_registrations.csv" {
		t.Errorf("EventRegistrationsExportFilename = %q", got)
	}
}
