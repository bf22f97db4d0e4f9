package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lakindu24/TalentHub-Admin/internal/api/middleware"
	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/dto"
	"github.com/Lakindu24/TalentHub-Admin/internal/service"
	pkgerrors "github.com/Lakindu24/TalentHub-Admin/pkg/errors"
	"github.com/Lakindu24/TalentHub-Admin/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock TraineeService ──

type mockTraineeService struct {
	listResult   []dto.TraineeResponse
	listTotal    int64
	getResult    *dto.TraineeResponse
	getErr       error
	createResult *dto.TraineeResponse
	createErr    error
	updateErr    error
	deleteErr    error
	parseRows    []service.ImportTraineeRow
	parseErr     error
	importResult *dto.ImportTraineeResponse
}

func (m *mockTraineeService) List(_ context.Context, _ *dto.TraineeListRequest) ([]dto.TraineeResponse, int64, error) {
	return m.listResult, m.listTotal, nil
}
func (m *mockTraineeService) GetByID(_ context.Context, _ string) (*dto.TraineeResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTraineeService) Create(_ context.Context, _ *dto.CreateTraineeRequest) (*dto.TraineeResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockTraineeService) Update(_ context.Context, _ string, _ *dto.UpdateTraineeRequest) (*dto.TraineeResponse, error) {
	return m.getResult, m.updateErr
}
func (m *mockTraineeService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockTraineeService) AddAvailableDay(_ context.Context, _, _ string) (*dto.TraineeResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTraineeService) RemoveAvailableDay(_ context.Context, _, _ string) (*dto.TraineeResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTraineeService) UpdateEmail(_ context.Context, _ *dto.UpdateEmailRequest) (*dto.TraineeResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTraineeService) ParseImportFile(_ io.Reader) ([]service.ImportTraineeRow, error) {
	return m.parseRows, m.parseErr
}
func (m *mockTraineeService) Import(_ context.Context, _ []service.ImportTraineeRow) (*dto.ImportTraineeResponse, error) {
	return m.importResult, nil
}

// ── Mock TeamService ──

type mockTeamService struct {
	renameErr error
	affected  *dto.AffectedResponse
}

func (m *mockTeamService) List(_ context.Context) ([]dto.TeamResponse, error) {
	return []dto.TeamResponse{{Name: "Alpha", Count: 0, Members: []dto.TraineeResponse{}}}, nil
}
func (m *mockTeamService) Assign(_ context.Context, _ *dto.AssignTeamRequest) (*dto.AffectedResponse, error) {
	return m.affected, nil
}
func (m *mockTeamService) Rename(_ context.Context, _ string, _ *dto.RenameTeamRequest) (*dto.AffectedResponse, error) {
	return m.affected, m.renameErr
}
func (m *mockTeamService) Delete(_ context.Context, _ string) (*dto.AffectedResponse, error) {
	return m.affected, nil
}
func (m *mockTeamService) SetTraineeTeam(_ context.Context, _, _ string) (*dto.TraineeResponse, error) {
	return &dto.TraineeResponse{}, nil
}
func (m *mockTeamService) RemoveTraineeFromTeam(_ context.Context, _ string) (*dto.TraineeResponse, error) {
	return &dto.TraineeResponse{}, nil
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	markResult *dto.PhysicalAttendanceResponse
	markErr    error
	lastCat    attendance.Category
}

func (m *mockAttendanceService) Mark(_ context.Context, _ *dto.MarkAttendanceRequest) (*dto.PhysicalAttendanceResponse, error) {
	return m.markResult, m.markErr
}
func (m *mockAttendanceService) UpdateForDate(_ context.Context, _ string, _ *dto.UpdateAttendanceDateRequest) (*dto.PhysicalAttendanceResponse, error) {
	return m.markResult, m.markErr
}
func (m *mockAttendanceService) TodayStats(_ context.Context, date string) (*dto.TodayStatsResponse, error) {
	return &dto.TodayStatsResponse{Date: date}, nil
}
func (m *mockAttendanceService) DayStats(_ context.Context, _ string) (*attendance.DayStats, error) {
	return &attendance.DayStats{}, nil
}
func (m *mockAttendanceService) CategoryStats(_ context.Context, cat attendance.Category, date string) (*dto.CategoryStatsResponse, error) {
	m.lastCat = cat
	return &dto.CategoryStatsResponse{Date: date, Type: string(cat)}, nil
}
func (m *mockAttendanceService) TodayListing(_ context.Context, cat attendance.Category, date string) (*dto.TodayListingResponse, error) {
	m.lastCat = cat
	return &dto.TodayListingResponse{Date: date, Type: string(cat), Interns: []dto.AttendedInternResponse{}}, nil
}
func (m *mockAttendanceService) Weekly(_ context.Context) (*dto.WeeklyAttendanceResponse, error) {
	return &dto.WeeklyAttendanceResponse{}, nil
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDay(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock SummaryService ──

type mockSummaryService struct {
	getErr  error
	listErr error
}

func (m *mockSummaryService) Generate(_ context.Context, date string) (*dto.DailySummaryResponse, error) {
	return &dto.DailySummaryResponse{Date: date}, nil
}
func (m *mockSummaryService) GenerateForDay(_ context.Context, day time.Time) (*dto.DailySummaryResponse, error) {
	return &dto.DailySummaryResponse{Date: attendance.FormatDay(day)}, nil
}
func (m *mockSummaryService) Get(_ context.Context, date string) (*dto.DailySummaryResponse, error) {
	return &dto.DailySummaryResponse{Date: date}, m.getErr
}
func (m *mockSummaryService) List(_ context.Context, _ *dto.DateRangeQuery) ([]dto.DailySummaryResponse, error) {
	return []dto.DailySummaryResponse{}, m.listErr
}

// ── Mock OnlineAttendanceService ──

type mockOnlineService struct {
	uploadResult *dto.UploadResultResponse
	uploadErr    error
	markErr      error
	meetingErr   error
	lastUpload   *dto.UploadTeamsReportRequest
	lastMeetingQ *dto.MeetingQueryRequest
}

func (m *mockOnlineService) Upload(_ context.Context, req *dto.UploadTeamsReportRequest) (*dto.UploadResultResponse, error) {
	m.lastUpload = req
	return m.uploadResult, m.uploadErr
}
func (m *mockOnlineService) ListByDate(_ context.Context, date string) (*dto.OnlineRecordsByDateResponse, error) {
	return &dto.OnlineRecordsByDateResponse{Date: date, Records: []dto.OnlineAttendanceRecord{}}, nil
}
func (m *mockOnlineService) Stats(_ context.Context, _ string) (*attendance.OnlineStats, error) {
	return &attendance.OnlineStats{}, nil
}
func (m *mockOnlineService) Mark(_ context.Context, req *dto.MarkOnlineAttendanceRequest) (*dto.OnlineAttendanceRecord, error) {
	return &dto.OnlineAttendanceRecord{MeetingName: req.MeetingName, Status: req.Status}, m.markErr
}
func (m *mockOnlineService) ListByMeeting(_ context.Context, req *dto.MeetingQueryRequest) (*dto.OnlineRecordsByMeetingResponse, error) {
	m.lastMeetingQ = req
	return &dto.OnlineRecordsByMeetingResponse{MeetingName: req.MeetingName}, m.meetingErr
}

// ── Mock QRSessionService ──

type mockQRService struct {
	createErr error
	scanErr   error
	revokeErr error
}

func (m *mockQRService) Create(_ context.Context, req *dto.CreateQRSessionRequest) (*dto.QRSessionResponse, error) {
	return &dto.QRSessionResponse{SessionID: "sid", Type: req.Type, Token: "tok"}, m.createErr
}
func (m *mockQRService) Scan(_ context.Context, req *dto.ScanQRRequest) (*dto.ScanQRResponse, error) {
	return &dto.ScanQRResponse{SessionID: "sid", TraineeID: req.TraineeID}, m.scanErr
}
func (m *mockQRService) Revoke(_ context.Context, _ string) error {
	return m.revokeErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		reader = jsonBody(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, wantHTTP, wantCode int) {
	t.Helper()
	if w.Code != wantHTTP {
		t.Errorf("expected HTTP %d, got %d (body=%s)", wantHTTP, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != wantCode {
		t.Errorf("expected code %d, got %d", wantCode, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TraineeHandler Tests
// ═══════════════════════════════════════════════════════════

func traineeRouter(m *mockTraineeService) *gin.Engine {
	h := NewTraineeHandler(m, &mockTeamService{})
	r := gin.New()
	r.GET("/interns", h.ListTrainees)
	r.GET("/interns/:id", h.GetTrainee)
	r.POST("/interns", h.CreateTrainee)
	r.PUT("/interns/:id", h.UpdateTrainee)
	r.POST("/interns/import", h.ImportTrainees)
	r.POST("/interns/:id/available-days", h.AddAvailableDay)
	r.PUT("/interns/:id/team", h.SetTeam)
	return r
}

func validCreate() dto.CreateTraineeRequest {
	return dto.CreateTraineeRequest{
		TraineeID:      "T001",
		TraineeName:    "Alice",
		Specialization: "Backend",
		AvailableDays:  []string{"Monday", "Friday"},
	}
}

func TestTraineeHandler_Create_Success(t *testing.T) {
	m := &mockTraineeService{createResult: &dto.TraineeResponse{ID: "uuid-1", TraineeID: "T001"}}
	w := doJSON(traineeRouter(m), "POST", "/interns", validCreate())

	assertStatus(t, w, http.StatusCreated, 0)
}

func TestTraineeHandler_Create_InvalidWeekday(t *testing.T) {
	req := validCreate()
	req.AvailableDays = []string{"Saturday"}
	w := doJSON(traineeRouter(&mockTraineeService{}), "POST", "/interns", req)

	assertStatus(t, w, http.StatusBadRequest, 10001)
	if resp := parseResponse(w); !strings.Contains(resp.Error, "availableDays") {
		t.Errorf("error should name the json field, got %q", resp.Error)
	}
}

func TestTraineeHandler_Create_BlankName(t *testing.T) {
	req := validCreate()
	req.TraineeName = "   "
	w := doJSON(traineeRouter(&mockTraineeService{}), "POST", "/interns", req)

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestTraineeHandler_Create_Duplicate(t *testing.T) {
	m := &mockTraineeService{createErr: service.ErrTraineeIDExists}
	w := doJSON(traineeRouter(m), "POST", "/interns", validCreate())

	assertStatus(t, w, http.StatusConflict, 11002)
}

func TestTraineeHandler_Create_UUIDShapedID(t *testing.T) {
	m := &mockTraineeService{createErr: service.ErrTraineeIDReserved}
	w := doJSON(traineeRouter(m), "POST", "/interns", validCreate())

	assertStatus(t, w, http.StatusBadRequest, 11008)
}

func TestTraineeHandler_Create_BadJSON(t *testing.T) {
	w := doJSON(traineeRouter(&mockTraineeService{}), "POST", "/interns", "not json")

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestTraineeHandler_Get_NotFound(t *testing.T) {
	m := &mockTraineeService{getErr: service.ErrTraineeNotFound}
	w := doJSON(traineeRouter(m), "GET", "/interns/T404", nil)

	assertStatus(t, w, http.StatusNotFound, 11001)
}

func TestTraineeHandler_Update_OptimisticLock(t *testing.T) {
	m := &mockTraineeService{updateErr: pkgerrors.ErrOptimisticLock}
	name := "Bob"
	w := doJSON(traineeRouter(m), "PUT", "/interns/T001", dto.UpdateTraineeRequest{TraineeName: &name, Version: 1})

	assertStatus(t, w, http.StatusConflict, 10010)
}

func TestTraineeHandler_Update_IDImmutable(t *testing.T) {
	m := &mockTraineeService{updateErr: service.ErrTraineeIDImmutable}
	id := "T999"
	w := doJSON(traineeRouter(m), "PUT", "/interns/T001", dto.UpdateTraineeRequest{TraineeID: &id})

	assertStatus(t, w, http.StatusBadRequest, 11003)
}

func TestTraineeHandler_List_Pagination(t *testing.T) {
	m := &mockTraineeService{listResult: []dto.TraineeResponse{{TraineeID: "T001"}}, listTotal: 21}
	w := doJSON(traineeRouter(m), "GET", "/interns?page=1&page_size=10", nil)

	assertStatus(t, w, http.StatusOK, 0)
	var body struct {
		Data response.PageData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", body.Data.Pagination.TotalPages)
	}
}

func TestTraineeHandler_AddAvailableDay_Invalid(t *testing.T) {
	w := doJSON(traineeRouter(&mockTraineeService{}), "POST", "/interns/T001/available-days", dto.AvailableDayRequest{Day: "monday"})

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestTraineeHandler_SetTeam_Blank(t *testing.T) {
	w := doJSON(traineeRouter(&mockTraineeService{}), "PUT", "/interns/T001/team", dto.SetTeamRequest{Team: " "})

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest("POST", "/interns/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestTraineeHandler_Import_RejectsNonXLSX(t *testing.T) {
	r := traineeRouter(&mockTraineeService{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "trainees.csv", []byte("a,b")))

	assertStatus(t, w, http.StatusBadRequest, 11005)
}

func TestTraineeHandler_Import_ParseError(t *testing.T) {
	m := &mockTraineeService{parseErr: service.ErrImportBadHeader}
	r := traineeRouter(m)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "trainees.xlsx", []byte("PK")))

	assertStatus(t, w, http.StatusBadRequest, 11007)
}

func TestTraineeHandler_Import_Success(t *testing.T) {
	m := &mockTraineeService{
		parseRows:    []service.ImportTraineeRow{{}},
		importResult: &dto.ImportTraineeResponse{Total: 1, Success: 1},
	}
	r := traineeRouter(m)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "Trainees.XLSX", []byte("PK")))

	assertStatus(t, w, http.StatusOK, 0)
}

// ═══════════════════════════════════════════════════════════
// TeamHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTeamHandler_Rename_NotFound(t *testing.T) {
	h := NewTeamHandler(&mockTeamService{renameErr: service.ErrTeamNotFound})
	r := gin.New()
	r.PUT("/teams/:name", h.RenameTeam)

	w := doJSON(r, "PUT", "/teams/Ghost", dto.RenameTeamRequest{NewName: "Alpha"})
	assertStatus(t, w, http.StatusNotFound, 12001)
}

func TestTeamHandler_Assign_EmptyIDs(t *testing.T) {
	h := NewTeamHandler(&mockTeamService{})
	r := gin.New()
	r.POST("/teams/assign", h.AssignTeam)

	w := doJSON(r, "POST", "/teams/assign", dto.AssignTeamRequest{InternIDs: []string{}, Team: "Alpha"})
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestTeamHandler_Assign_Success(t *testing.T) {
	h := NewTeamHandler(&mockTeamService{affected: &dto.AffectedResponse{Affected: 2}})
	r := gin.New()
	r.POST("/teams/assign", h.AssignTeam)

	w := doJSON(r, "POST", "/teams/assign", dto.AssignTeamRequest{InternIDs: []string{"T001", "T002"}, Team: "Alpha"})
	assertStatus(t, w, http.StatusOK, 0)
}

// ═══════════════════════════════════════════════════════════
// OnlineAttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func onlineRouter(m *mockOnlineService) *gin.Engine {
	h := NewOnlineAttendanceHandler(m)
	r := gin.New()
	r.POST("/online-attendance/upload", h.Upload)
	r.GET("/online-attendance/date", h.ListByDate)
	r.POST("/online-attendance/mark", h.Mark)
	r.GET("/online-attendance/meeting", h.ListByMeeting)
	return r
}

func TestOnlineHandler_Upload_Success(t *testing.T) {
	m := &mockOnlineService{uploadResult: &dto.UploadResultResponse{MeetingName: "Standup", Success: 2, Failed: 1}}
	body := map[string]interface{}{
		"meetingName": "Standup",
		"csvData": []map[string]interface{}{
			{"Full Name": "Alice (T001)", "User Action": "Joined"},
		},
	}
	w := doJSON(onlineRouter(m), "POST", "/online-attendance/upload", body)

	assertStatus(t, w, http.StatusOK, 0)
	if m.lastUpload == nil || len(m.lastUpload.CSVData) != 1 {
		t.Fatalf("csvData not bound: %+v", m.lastUpload)
	}
	if got := m.lastUpload.CSVData[0]["Full Name"]; got != "Alice (T001)" {
		t.Errorf("unexpected row value %v", got)
	}
}

func TestOnlineHandler_Upload_MissingMeetingName(t *testing.T) {
	body := map[string]interface{}{"csvData": []map[string]interface{}{}}
	w := doJSON(onlineRouter(&mockOnlineService{}), "POST", "/online-attendance/upload", body)

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestOnlineHandler_Upload_NoValidRecords(t *testing.T) {
	m := &mockOnlineService{uploadErr: service.ErrNoValidRecords}
	body := map[string]interface{}{"meetingName": "Standup", "csvData": []map[string]interface{}{}}
	w := doJSON(onlineRouter(m), "POST", "/online-attendance/upload", body)

	assertStatus(t, w, http.StatusBadRequest, 14002)
}

func TestOnlineHandler_Upload_BodyTooLarge(t *testing.T) {
	h := NewOnlineAttendanceHandler(&mockOnlineService{})
	r := gin.New()
	r.Use(middleware.BodyLimit(32))
	r.POST("/online-attendance/upload", h.Upload)

	big := `{"meetingName":"` + strings.Repeat("x", 100) + `","csvData":[]}`
	req := httptest.NewRequest("POST", "/online-attendance/upload", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusRequestEntityTooLarge, 10005)
}

func TestOnlineHandler_Mark_TraineeNotFound(t *testing.T) {
	m := &mockOnlineService{markErr: service.ErrTraineeNotFound}
	w := doJSON(onlineRouter(m), "POST", "/online-attendance/mark", dto.MarkOnlineAttendanceRequest{
		InternID: "T404", MeetingName: "Standup", Status: "Present",
	})

	assertStatus(t, w, http.StatusNotFound, 11001)
}

func TestOnlineHandler_Mark_InvalidStatus(t *testing.T) {
	w := doJSON(onlineRouter(&mockOnlineService{}), "POST", "/online-attendance/mark", dto.MarkOnlineAttendanceRequest{
		InternID: "T001", MeetingName: "Standup", Status: "Late",
	})

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestOnlineHandler_ListByDate_InvalidDate(t *testing.T) {
	h := NewOnlineAttendanceHandler(&invalidDateOnline{})
	r := gin.New()
	r.GET("/online-attendance/date", h.ListByDate)

	w := doJSON(r, "GET", "/online-attendance/date?date=12-03-2025", nil)
	assertStatus(t, w, http.StatusBadRequest, 10006)
}

type invalidDateOnline struct{ mockOnlineService }

func (m *invalidDateOnline) ListByDate(_ context.Context, _ string) (*dto.OnlineRecordsByDateResponse, error) {
	return nil, attendance.ErrInvalidDate
}

func TestOnlineHandler_ListByMeeting(t *testing.T) {
	m := &mockOnlineService{}
	w := doJSON(onlineRouter(m), "GET", "/online-attendance/meeting?meetingName=Standup&startDate=2025-03-01&endDate=2025-03-31", nil)

	assertStatus(t, w, http.StatusOK, 0)
	if m.lastMeetingQ.StartDate != "2025-03-01" || m.lastMeetingQ.EndDate != "2025-03-31" {
		t.Errorf("query not bound: %+v", m.lastMeetingQ)
	}
}

func TestOnlineHandler_ListByMeeting_BadRange(t *testing.T) {
	m := &mockOnlineService{meetingErr: service.ErrInvalidDateRange}
	w := doJSON(onlineRouter(m), "GET", "/online-attendance/meeting?meetingName=Standup&startDate=2025-03-31&endDate=2025-03-01", nil)

	assertStatus(t, w, http.StatusBadRequest, 10009)
}

func TestOnlineHandler_ListByMeeting_MissingName(t *testing.T) {
	w := doJSON(onlineRouter(&mockOnlineService{}), "GET", "/online-attendance/meeting", nil)

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

// ═══════════════════════════════════════════════════════════
// AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func attendanceRouter(att *mockAttendanceService, exp *mockExportService, sum *mockSummaryService) *gin.Engine {
	h := NewAttendanceHandler(att, exp, sum)
	r := gin.New()
	r.POST("/attendance/mark", h.Mark)
	r.GET("/attendance/stats/by-type", h.StatsByType)
	r.GET("/attendance/today", h.TodayListing)
	r.GET("/attendance/export", h.Export)
	r.GET("/attendance/summaries/:date", h.GetSummary)
	return r
}

func TestAttendanceHandler_Mark_Success(t *testing.T) {
	att := &mockAttendanceService{markResult: &dto.PhysicalAttendanceResponse{TraineeID: "T001", Type: "manual"}}
	w := doJSON(attendanceRouter(att, nil, nil), "POST", "/attendance/mark", dto.MarkAttendanceRequest{
		InternID: "T001", Status: "Present",
	})

	assertStatus(t, w, http.StatusOK, 0)
}

func TestAttendanceHandler_Mark_InvalidType(t *testing.T) {
	w := doJSON(attendanceRouter(&mockAttendanceService{}, nil, nil), "POST", "/attendance/mark", dto.MarkAttendanceRequest{
		InternID: "T001", Status: "Present", Type: "online_attendance",
	})

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestAttendanceHandler_Mark_InvalidDate(t *testing.T) {
	att := &mockAttendanceService{markErr: attendance.ErrInvalidDate}
	w := doJSON(attendanceRouter(att, nil, nil), "POST", "/attendance/mark", dto.MarkAttendanceRequest{
		InternID: "T001", Status: "Present", Date: "yesterday",
	})

	assertStatus(t, w, http.StatusBadRequest, 10006)
}

func TestAttendanceHandler_StatsByType(t *testing.T) {
	att := &mockAttendanceService{}
	w := doJSON(attendanceRouter(att, nil, nil), "GET", "/attendance/stats/by-type?type=meeting&date=2025-03-12", nil)

	assertStatus(t, w, http.StatusOK, 0)
	if att.lastCat != attendance.CategoryMeeting {
		t.Errorf("expected meeting category, got %q", att.lastCat)
	}
}

func TestAttendanceHandler_StatsByType_InvalidType(t *testing.T) {
	w := doJSON(attendanceRouter(&mockAttendanceService{}, nil, nil), "GET", "/attendance/stats/by-type?type=weekly", nil)

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestAttendanceHandler_TodayListing_DefaultsToAll(t *testing.T) {
	att := &mockAttendanceService{}
	w := doJSON(attendanceRouter(att, nil, nil), "GET", "/attendance/today", nil)

	assertStatus(t, w, http.StatusOK, 0)
	if att.lastCat != attendance.CategoryAll {
		t.Errorf("expected all category, got %q", att.lastCat)
	}
}

func TestAttendanceHandler_Export_Success(t *testing.T) {
	exp := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "attendance_2025-03-12.xlsx"}
	w := doJSON(attendanceRouter(&mockAttendanceService{}, exp, nil), "GET", "/attendance/export?date=2025-03-12", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attendance_2025-03-12.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestAttendanceHandler_Export_NoTrainees(t *testing.T) {
	exp := &mockExportService{err: service.ErrExportNoTrainees}
	w := doJSON(attendanceRouter(&mockAttendanceService{}, exp, nil), "GET", "/attendance/export", nil)

	assertStatus(t, w, http.StatusNotFound, 16001)
}

func TestAttendanceHandler_GetSummary_NotFound(t *testing.T) {
	sum := &mockSummaryService{getErr: service.ErrSummaryNotFound}
	w := doJSON(attendanceRouter(&mockAttendanceService{}, nil, sum), "GET", "/attendance/summaries/2025-03-12", nil)

	assertStatus(t, w, http.StatusNotFound, 17001)
}

func TestAttendanceHandler_UnknownError(t *testing.T) {
	att := &mockAttendanceService{markErr: errors.New("connection reset")}
	w := doJSON(attendanceRouter(att, nil, nil), "POST", "/attendance/mark", dto.MarkAttendanceRequest{
		InternID: "T001", Status: "Absent",
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Error != "connection reset" {
		t.Errorf("expected diagnostic detail, got %q", resp.Error)
	}
}

// ═══════════════════════════════════════════════════════════
// QRSessionHandler Tests
// ═══════════════════════════════════════════════════════════

func qrRouter(m *mockQRService) *gin.Engine {
	h := NewQRSessionHandler(m)
	r := gin.New()
	r.POST("/qr-sessions", h.Create)
	r.POST("/qr-sessions/scan", h.Scan)
	r.DELETE("/qr-sessions/:id", h.Revoke)
	return r
}

func TestQRHandler_Create(t *testing.T) {
	w := doJSON(qrRouter(&mockQRService{}), "POST", "/qr-sessions", dto.CreateQRSessionRequest{Type: "daily_qr"})
	assertStatus(t, w, http.StatusCreated, 0)

	w = doJSON(qrRouter(&mockQRService{}), "POST", "/qr-sessions", dto.CreateQRSessionRequest{Type: "manual"})
	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestQRHandler_Scan_ErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		wantHTTP int
		wantCode int
	}{
		{service.ErrQRSessionExpired, http.StatusBadRequest, 15001},
		{service.ErrQRSessionInvalid, http.StatusBadRequest, 15002},
		{service.ErrQRSessionRevoked, http.StatusConflict, 15003},
		{service.ErrAlreadyScanned, http.StatusConflict, 15004},
		{service.ErrTraineeNotFound, http.StatusNotFound, 11001},
	}
	for _, tc := range cases {
		w := doJSON(qrRouter(&mockQRService{scanErr: tc.err}), "POST", "/qr-sessions/scan", dto.ScanQRRequest{
			Token: "tok", TraineeID: "T001",
		})
		assertStatus(t, w, tc.wantHTTP, tc.wantCode)
	}
}

func TestQRHandler_Revoke_StoreUnavailable(t *testing.T) {
	w := doJSON(qrRouter(&mockQRService{revokeErr: service.ErrSessionStoreUnavailable}), "DELETE", "/qr-sessions/sid", nil)

	assertStatus(t, w, http.StatusServiceUnavailable, 15005)
}

// ═══════════════════════════════════════════════════════════
// HealthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	cases := []struct {
		name       string
		required   map[string]Checker
		optional   map[string]Checker
		wantHTTP   int
		wantStatus string
	}{
		{"all ok", map[string]Checker{"database": ok}, map[string]Checker{"redis": ok}, http.StatusOK, "ok"},
		{"redis disabled", map[string]Checker{"database": ok}, map[string]Checker{"redis": nil}, http.StatusOK, "degraded"},
		{"redis down", map[string]Checker{"database": ok}, map[string]Checker{"redis": down}, http.StatusOK, "degraded"},
		{"database down", map[string]Checker{"database": down}, map[string]Checker{"redis": ok}, http.StatusServiceUnavailable, "down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(tc.required, tc.optional)
			r := gin.New()
			r.GET("/health", h.Health)

			w := doJSON(r, "GET", "/health", nil)
			if w.Code != tc.wantHTTP {
				t.Errorf("expected %d, got %d", tc.wantHTTP, w.Code)
			}
			var body struct {
				Status string `json:"status"`
			}
			json.Unmarshal(w.Body.Bytes(), &body)
			if body.Status != tc.wantStatus {
				t.Errorf("expected status %q, got %q", tc.wantStatus, body.Status)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// Binding Error Formatting
// ═══════════════════════════════════════════════════════════

func TestFormatBindingError(t *testing.T) {
	if got := FormatBindingError(io.EOF); got != "request body is empty" {
		t.Errorf("unexpected EOF message %q", got)
	}
	if got := FormatBindingError(nil); got != "" {
		t.Errorf("nil error should format empty, got %q", got)
	}

	var syntaxErr error = json.Unmarshal([]byte("{"), &struct{}{})
	if got := FormatBindingError(syntaxErr); got == "" {
		t.Error("syntax error should produce a message")
	}
}
