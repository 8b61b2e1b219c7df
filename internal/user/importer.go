package user

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	userDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/user"
)

type ImportOutcome string

const (
	ImportAdded   ImportOutcome = "added"
	ImportSkipped ImportOutcome = "skipped"
)

// ImportLine is the outcome of one data line. Line is 1-based with the header on line 1.
type ImportLine struct {
	Line     int
	Username string
	Outcome  ImportOutcome
	Reason   string
}

func (l ImportLine) String() string {
	if l.Outcome == ImportAdded {
		return fmt.Sprintf("line %d: added user '%s'", l.Line, l.Username)
	}
	if l.Username == "" {
		return fmt.Sprintf("line %d: skipped: %s", l.Line, l.Reason)
	}
	return fmt.Sprintf("line %d: skipped user '%s': %s", l.Line, l.Username, l.Reason)
}

type ImportReport struct {
	Lines []ImportLine
}

func (r *ImportReport) Added() int {
	return r.count(ImportAdded)
}

func (r *ImportReport) Skipped() int {
	return r.count(ImportSkipped)
}

func (r *ImportReport) count(outcome ImportOutcome) int {
	n := 0
	for _, l := range r.Lines {
		if l.Outcome == outcome {
			n++
		}
	}
	return n
}

type pendingUser struct {
	line int
	data *userDatamodel.User
}

// ImportCSV bulk-inserts users from username,password,role,status rows. The header
// row is skipped. Malformed rows and existing usernames are reported and skipped;
// every other row is committed in one transaction. Intended for offline use, so
// no session is required.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	report := &ImportReport{}
	var pending []pendingUser
	header := true

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				report.Lines = append(report.Lines, ImportLine{Line: parseErr.StartLine, Outcome: ImportSkipped, Reason: "unreadable line"})
				continue
			}
			return nil, internal.NewInternalError("Failed to read import file", err)
		}
		if header {
			header = false
			continue
		}
		line, _ := reader.FieldPos(0)

		if len(record) != 4 {
			report.Lines = append(report.Lines, ImportLine{
				Line:    line,
				Outcome: ImportSkipped,
				Reason:  "invalid format, expected username,password,role,status",
			})
			continue
		}

		username := strings.TrimSpace(record[0])
		password := strings.TrimSpace(record[1])
		if username == "" || password == "" {
			report.Lines = append(report.Lines, ImportLine{Line: line, Username: username, Outcome: ImportSkipped, Reason: "username and password are required"})
			continue
		}

		role, ok := ParseRole(record[2])
		if !ok {
			report.Lines = append(report.Lines, ImportLine{Line: line, Username: username, Outcome: ImportSkipped, Reason: fmt.Sprintf("invalid role %q", strings.TrimSpace(record[2]))})
			continue
		}
		status, ok := ParseStatus(record[3])
		if !ok {
			report.Lines = append(report.Lines, ImportLine{Line: line, Username: username, Outcome: ImportSkipped, Reason: fmt.Sprintf("invalid status %q", strings.TrimSpace(record[3]))})
			continue
		}

		hash, err := s.HashPassword(password)
		if err != nil {
			return nil, err
		}
		pending = append(pending, pendingUser{line: line, data: ToDataModel(NewUser(username, hash, role, status))})
	}

	users := make([]*userDatamodel.User, len(pending))
	for i, p := range pending {
		users[i] = p.data
	}

	results, err := s.repo.InsertEach(ctx, users)
	if err != nil {
		return nil, internal.NewInternalError("Failed to import users", err)
	}

	for i, p := range pending {
		l := ImportLine{Line: p.line, Username: p.data.Username, Outcome: ImportAdded}
		if results[i] != nil {
			l.Outcome = ImportSkipped
			l.Reason = "already exists"
		}
		report.Lines = append(report.Lines, l)
	}

	sort.SliceStable(report.Lines, func(i, j int) bool { return report.Lines[i].Line < report.Lines[j].Line })
	s.logger.Info("user import finished", "added", report.Added(), "skipped", report.Skipped())
	return report, nil
}
