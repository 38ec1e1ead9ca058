package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-pdf/internal/core/domain"
	"github.com/custodia-labs/sercha-pdf/internal/core/ports/driving"
)

// Mock services for testing

type mockAuthService struct {
	authenticateFn   func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	validateTokenFn  func(ctx context.Context, token string) (*domain.AuthContext, error)
	refreshTokenFn   func(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error)
	logoutFn         func(ctx context.Context, token string) error
	changePasswordFn func(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
}

func (m *mockAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) RefreshToken(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
	if m.refreshTokenFn != nil {
		return m.refreshTokenFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, userID, req)
	}
	return nil
}

type mockUserService struct {
	setupFn  func(ctx context.Context, req driving.SetupRequest) (*driving.SetupResponse, error)
	createFn func(ctx context.Context, req driving.CreateUserRequest) (*domain.User, error)
	getFn    func(ctx context.Context, id string) (*domain.User, error)
	listFn   func(ctx context.Context) ([]*domain.User, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockUserService) Setup(ctx context.Context, req driving.SetupRequest) (*driving.SetupResponse, error) {
	if m.setupFn != nil {
		return m.setupFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Create(ctx context.Context, req driving.CreateUserRequest) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) List(ctx context.Context) ([]*domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

type mockDocumentService struct {
	ingestFn func(ctx context.Context, ownerID, displayName string, content []byte) (*domain.DocumentInfo, error)
	listFn   func(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error)
	removeFn func(ctx context.Context, ownerID, documentID string) error
	usageFn  func(ctx context.Context, ownerID string) (*domain.OwnerUsage, error)
}

func (m *mockDocumentService) Ingest(ctx context.Context, ownerID, displayName string, content []byte) (*domain.DocumentInfo, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, ownerID, displayName, content)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) List(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockDocumentService) Remove(ctx context.Context, ownerID, documentID string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, ownerID, documentID)
	}
	return errors.New("not implemented")
}

func (m *mockDocumentService) Usage(ctx context.Context, ownerID string) (*domain.OwnerUsage, error) {
	if m.usageFn != nil {
		return m.usageFn(ctx, ownerID)
	}
	return nil, errors.New("not implemented")
}

type mockSearchService struct {
	searchFn func(ctx context.Context, ownerID, term string) (*domain.SearchResult, error)
}

func (m *mockSearchService) Search(ctx context.Context, ownerID, term string) (*domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, ownerID, term)
	}
	return nil, errors.New("not implemented")
}

type mockPackageService struct {
	packageFn func(ctx context.Context, ownerID string, documentIDs []string) ([]byte, error)
}

func (m *mockPackageService) Package(ctx context.Context, ownerID string, documentIDs []string) ([]byte, error) {
	if m.packageFn != nil {
		return m.packageFn(ctx, ownerID, documentIDs)
	}
	return nil, errors.New("not implemented")
}

// Test helpers

func withAuth(req *http.Request, role domain.Role) *http.Request {
	ctx := context.WithValue(req.Context(), authContextKey, &domain.AuthContext{
		UserID:    "user-1",
		Email:     "test@example.com",
		Role:      role,
		SessionID: "session-1",
	})
	return req.WithContext(ctx)
}

func multipartBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	server := &Server{version: "test"}

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	server := &Server{version: "1.2.3"}

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()

	server.handleVersion(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", response["version"])
	}
}

// Auth endpoints

func TestHandleLogin_Success(t *testing.T) {
	expiresAt := time.Now().Add(1 * time.Hour)
	mockAuth := &mockAuthService{
		authenticateFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
			if req.Email == "test@example.com" && req.Password == "password123" {
				return &domain.LoginResponse{
					Token:        "test-token",
					RefreshToken: "refresh-token",
					ExpiresAt:    expiresAt,
					User: &domain.UserSummary{
						ID:    "user-1",
						Email: "test@example.com",
						Name:  "Test User",
						Role:  domain.RoleAdmin,
					},
				}, nil
			}
			return nil, domain.ErrInvalidCredentials
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response domain.LoginResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Token != "test-token" {
		t.Errorf("expected token 'test-token', got %s", response.Token)
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	mockAuth := &mockAuthService{
		authenticateFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}

	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.LoginRequest{Email: "wrong@example.com", Password: "wrongpass"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestHandleLogin_InvalidJSON(t *testing.T) {
	server := &Server{authService: &mockAuthService{}}

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString("invalid json"))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleRefresh_InvalidToken(t *testing.T) {
	mockAuth := &mockAuthService{
		refreshTokenFn: func(ctx context.Context, req domain.RefreshRequest) (*domain.LoginResponse, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	server := &Server{authService: mockAuth}

	body, _ := json.Marshal(domain.RefreshRequest{RefreshToken: "stale"})
	req := httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleRefresh(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

// Document endpoints

func TestHandleUploadDocument_Success(t *testing.T) {
	var gotOwner, gotName string
	var gotContent []byte
	mockDocs := &mockDocumentService{
		ingestFn: func(ctx context.Context, ownerID, displayName string, content []byte) (*domain.DocumentInfo, error) {
			gotOwner, gotName, gotContent = ownerID, displayName, content
			return &domain.DocumentInfo{
				ID:          "doc-1",
				DisplayName: displayName,
				ByteSize:    int64(len(content)),
				PageCount:   3,
				IngestedAt:  time.Now(),
			}, nil
		},
	}
	server := &Server{documentService: mockDocs, maxUploadBytes: 1 << 20}

	body, contentType := multipartBody(t, "file", "report.pdf", []byte("%PDF-fake"))
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotOwner != "user-1" {
		t.Errorf("expected owner user-1, got %s", gotOwner)
	}
	if gotName != "report.pdf" {
		t.Errorf("expected name report.pdf, got %s", gotName)
	}
	if string(gotContent) != "%PDF-fake" {
		t.Error("expected uploaded bytes passed through")
	}

	var info domain.DocumentInfo
	if err := json.NewDecoder(rr.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.ID != "doc-1" || info.PageCount != 3 {
		t.Errorf("unexpected response %+v", info)
	}
}

func TestHandleUploadDocument_MissingFile(t *testing.T) {
	server := &Server{documentService: &mockDocumentService{}, maxUploadBytes: 1 << 20}

	req := httptest.NewRequest("POST", "/api/v1/documents", bytes.NewBufferString("no multipart"))
	rr := httptest.NewRecorder()

	server.handleUploadDocument(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleUploadDocument_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"malformed", domain.ErrMalformedDocument, http.StatusBadRequest},
		{"quota", domain.ErrQuotaExceeded, http.StatusForbidden},
		{"too large", &domain.SizeLimitError{What: "document bytes", Limit: 1, Actual: 2}, http.StatusRequestEntityTooLarge},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDocs := &mockDocumentService{
				ingestFn: func(ctx context.Context, ownerID, displayName string, content []byte) (*domain.DocumentInfo, error) {
					return nil, tt.err
				},
			}
			server := &Server{documentService: mockDocs, maxUploadBytes: 1 << 20}

			body, contentType := multipartBody(t, "file", "a.pdf", []byte("content"))
			req := httptest.NewRequest("POST", "/api/v1/documents", body)
			req.Header.Set("Content-Type", contentType)
			rr := httptest.NewRecorder()

			server.handleUploadDocument(rr, withAuth(req, domain.RoleMember))

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestHandleListDocuments(t *testing.T) {
	mockDocs := &mockDocumentService{
		listFn: func(ctx context.Context, ownerID string) ([]*domain.DocumentInfo, error) {
			return []*domain.DocumentInfo{
				{ID: "doc-1", DisplayName: "a.pdf"},
				{ID: "doc-2", DisplayName: "b.pdf"},
			}, nil
		},
	}
	server := &Server{documentService: mockDocs}

	req := httptest.NewRequest("GET", "/api/v1/documents", nil)
	rr := httptest.NewRecorder()

	server.handleListDocuments(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var infos []*domain.DocumentInfo
	if err := json.NewDecoder(rr.Body).Decode(&infos); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("expected 2 documents, got %d", len(infos))
	}
}

func TestHandleDeleteDocument_NotFound(t *testing.T) {
	mockDocs := &mockDocumentService{
		removeFn: func(ctx context.Context, ownerID, documentID string) error {
			return domain.ErrNotFound
		},
	}
	server := &Server{documentService: mockDocs}

	req := httptest.NewRequest("DELETE", "/api/v1/documents/doc-404", nil)
	req.SetPathValue("id", "doc-404")
	rr := httptest.NewRecorder()

	server.handleDeleteDocument(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

// Search endpoint

func TestHandleSearch_Success(t *testing.T) {
	mockSearch := &mockSearchService{
		searchFn: func(ctx context.Context, ownerID, term string) (*domain.SearchResult, error) {
			if ownerID != "user-1" {
				t.Errorf("expected owner user-1, got %s", ownerID)
			}
			return &domain.SearchResult{
				Term: term,
				Groups: []*domain.DocumentMatches{
					{
						DocumentID:  "doc-1",
						DisplayName: "a.pdf",
						PageCount:   2,
						Matches: []domain.Match{
							{Page: 2, Offset: 4, Excerpt: "the quick brown fox"},
						},
					},
				},
			}, nil
		},
	}
	server := &Server{searchService: mockSearch}

	body, _ := json.Marshal(searchRequest{Term: "quick"})
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleSearch(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var result domain.SearchResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.TotalMatches() != 1 {
		t.Errorf("expected 1 match, got %d", result.TotalMatches())
	}
	if result.Groups[0].Matches[0].Page != 2 {
		t.Errorf("expected match on page 2, got %d", result.Groups[0].Matches[0].Page)
	}
}

func TestHandleSearch_EmptyTerm(t *testing.T) {
	mockSearch := &mockSearchService{
		searchFn: func(ctx context.Context, ownerID, term string) (*domain.SearchResult, error) {
			return nil, domain.ErrEmptyTerm
		},
	}
	server := &Server{searchService: mockSearch}

	body, _ := json.Marshal(searchRequest{Term: "   "})
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleSearch(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

// Archive endpoint

func TestHandleArchive_Success(t *testing.T) {
	archive := []byte("PK\x03\x04 fake zip bytes")
	mockPkg := &mockPackageService{
		packageFn: func(ctx context.Context, ownerID string, documentIDs []string) ([]byte, error) {
			if len(documentIDs) != 2 {
				t.Errorf("expected 2 ids, got %d", len(documentIDs))
			}
			return archive, nil
		},
	}
	server := &Server{packageService: mockPkg}

	body, _ := json.Marshal(archiveRequest{DocumentIDs: []string{"doc-1", "doc-2"}})
	req := httptest.NewRequest("POST", "/api/v1/documents/archive", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleArchive(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("expected application/zip, got %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="documents.zip"` {
		t.Errorf("unexpected content disposition %s", cd)
	}
	if !bytes.Equal(rr.Body.Bytes(), archive) {
		t.Error("expected archive bytes in response body")
	}
}

func TestHandleArchive_MissingDocuments(t *testing.T) {
	mockPkg := &mockPackageService{
		packageFn: func(ctx context.Context, ownerID string, documentIDs []string) ([]byte, error) {
			return nil, &domain.MissingDocumentsError{IDs: []string{"ghost-1"}}
		},
	}
	server := &Server{packageService: mockPkg}

	body, _ := json.Marshal(archiveRequest{DocumentIDs: []string{"doc-1", "ghost-1"}})
	req := httptest.NewRequest("POST", "/api/v1/documents/archive", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleArchive(rr, withAuth(req, domain.RoleMember))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.MissingIDs) != 1 || resp.MissingIDs[0] != "ghost-1" {
		t.Errorf("expected missing ids in body, got %v", resp.MissingIDs)
	}
}

// Setup and user endpoints

func TestHandleSetup_AlreadyComplete(t *testing.T) {
	mockUsers := &mockUserService{
		setupFn: func(ctx context.Context, req driving.SetupRequest) (*driving.SetupResponse, error) {
			return nil, domain.ErrForbidden
		},
	}
	server := &Server{userService: mockUsers}

	body, _ := json.Marshal(driving.SetupRequest{Email: "a@b.c", Password: "p", Name: "n"})
	req := httptest.NewRequest("POST", "/api/v1/setup", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleSetup(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestHandleCreateUser_Conflict(t *testing.T) {
	mockUsers := &mockUserService{
		createFn: func(ctx context.Context, req driving.CreateUserRequest) (*domain.User, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	server := &Server{userService: mockUsers}

	body, _ := json.Marshal(driving.CreateUserRequest{
		Email: "dup@example.com", Password: "p", Name: "n", Role: domain.RoleMember,
	})
	req := httptest.NewRequest("POST", "/api/v1/users", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()

	server.handleCreateUser(rr, withAuth(req, domain.RoleAdmin))

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}
