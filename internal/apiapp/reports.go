package apiapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phillip-england/timeclock/internal/payroll"
	"github.com/phillip-england/timeclock/internal/policyfile"
	"github.com/phillip-england/timeclock/internal/punchimport"
	"github.com/phillip-england/timeclock/internal/reportexport"
)

type reportRequest struct {
	Punches              []punchPayload     `json:"punches"`
	Employees            []payroll.Employee `json:"employees"`
	EmployeeID           string             `json:"employeeId"`
	StartDate            string             `json:"startDate"`
	EndDate              string             `json:"endDate"`
	ApplyBreakDeductions *bool              `json:"applyBreakDeductions"`
	Timezone             string             `json:"timezone"`
}

type punchPayload struct {
	EmployeeID string    `json:"employeeId"`
	Kind       string    `json:"kind"`
	Timestamp  punchTime `json:"timestamp"`
}

// punchTime accepts RFC 3339 strings or epoch milliseconds.
type punchTime struct {
	time.Time
}

func (p *punchTime) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		p.Time = time.Time{}
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("timestamp must be RFC 3339 or epoch milliseconds")
		}
		p.Time = parsed
		return nil
	}
	millis, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp must be RFC 3339 or epoch milliseconds")
	}
	p.Time = time.UnixMilli(millis).UTC()
	return nil
}

type reportResponse struct {
	RunID  string          `json:"runId"`
	Report *payroll.Report `json:"report"`
}

func (s *server) createReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report, status, err := s.generateFromRequest(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	runID := uuid.NewString()
	logReport(runID, report)
	w.Header().Set("X-Report-ID", runID)
	writeJSON(w, http.StatusOK, reportResponse{RunID: runID, Report: report})
}

func (s *server) exportReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format, err := reportexport.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, status, err := s.generateFromRequest(w, r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := reportexport.Write(&buf, report, format); err != nil {
		log.Printf("export report: %v", err)
		writeError(w, http.StatusInternalServerError, "unable to export report")
		return
	}
	runID := uuid.NewString()
	logReport(runID, report)

	ext := string(format)
	if format == reportexport.FormatTable {
		ext = "txt"
	}
	w.Header().Set("Content-Type", reportexport.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payroll-%s.%s"`, runID, ext))
	w.Header().Set("X-Report-ID", runID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) generateFromRequest(w http.ResponseWriter, r *http.Request) (*payroll.Report, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid request body")
	}
	input, err := s.buildInput(req)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	report, err := payroll.Generate(input)
	if err != nil {
		if errors.Is(err, payroll.ErrInvalidRange) || errors.Is(err, payroll.ErrInvalidPunch) {
			return nil, http.StatusBadRequest, err
		}
		log.Printf("generate report: %v", err)
		return nil, http.StatusInternalServerError, errors.New("unable to generate report")
	}
	return report, http.StatusOK, nil
}

func (s *server) buildInput(req reportRequest) (payroll.Input, error) {
	loc := s.location
	if strings.TrimSpace(req.Timezone) != "" {
		var err error
		if loc, err = policyfile.LoadLocation(req.Timezone); err != nil {
			return payroll.Input{}, err
		}
	}

	punches := make([]payroll.Punch, 0, len(req.Punches))
	for i, p := range req.Punches {
		kind, err := payroll.ParsePunchKind(p.Kind)
		if err != nil {
			return payroll.Input{}, fmt.Errorf("punch %d: %w", i, err)
		}
		punches = append(punches, payroll.Punch{
			EmployeeID: strings.TrimSpace(p.EmployeeID),
			Kind:       kind,
			Timestamp:  p.Timestamp.Time,
		})
	}

	filter := payroll.Filter{EmployeeID: strings.TrimSpace(req.EmployeeID)}
	var err error
	if filter.Start, err = parseDateParam("startDate", req.StartDate, loc); err != nil {
		return payroll.Input{}, err
	}
	if filter.End, err = parseDateParam("endDate", req.EndDate, loc); err != nil {
		return payroll.Input{}, err
	}

	applyBreaks := s.policies.BreakDeductions()
	if req.ApplyBreakDeductions != nil {
		applyBreaks = *req.ApplyBreakDeductions
	}

	employees := policyfile.Merge(s.policies.EmployeeRecords(), req.Employees)
	return payroll.Input{
		Punches:             punches,
		Directory:           payroll.NewStaticDirectory(employees),
		Filter:              filter,
		SkipBreakDeductions: !applyBreaks,
		Location:            loc,
	}, nil
}

func parseDateParam(name, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must use YYYY-MM-DD", name)
	}
	return parsed, nil
}

func (s *server) importPunches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	loc := s.location
	if tz := strings.TrimSpace(r.URL.Query().Get("timezone")); tz != "" {
		var err error
		if loc, err = policyfile.LoadLocation(tz); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	raw, fileName, err := parseUploadedFileWithField(r, "file", s.maxUploadBytes, "punch file is required")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	punches, err := punchimport.ReadPunches(bytes.NewReader(raw), fileName, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if punches == nil {
		punches = []payroll.Punch{}
	}

	payload := map[string]any{
		"count":   len(punches),
		"punches": punches,
	}
	if parseBoolQueryValue(r.URL.Query().Get("report")) {
		report, err := payroll.Generate(payroll.Input{
			Punches:             punches,
			Directory:           payroll.NewStaticDirectory(s.policies.EmployeeRecords()),
			SkipBreakDeductions: !s.policies.BreakDeductions(),
			Location:            loc,
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		runID := uuid.NewString()
		logReport(runID, report)
		payload["runId"] = runID
		payload["report"] = report
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *server) importRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw, fileName, err := parseUploadedFileWithField(r, "file", s.maxUploadBytes, "roster file is required")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	employees, err := punchimport.ReadRoster(bytes.NewReader(raw), fileName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	employees = policyfile.Merge(employees, s.policies.EmployeeRecords())
	writeJSON(w, http.StatusOK, map[string]any{
		"count":     len(employees),
		"employees": employees,
	})
}

func logReport(runID string, report *payroll.Report) {
	log.Printf("report %s: %d shifts, %d unpaired, %d warnings", runID, len(report.ShiftRows), len(report.UnpairedRows), len(report.Warnings))
}
