package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dallenport/jobpilot/pkg/models"
)

// Sentinel errors for portal failures.
var (
	ErrPortalUnreachable = errors.New("portal unreachable")
	ErrPortalRejected    = errors.New("portal rejected request")
	ErrPortalTimeout     = errors.New("portal request timeout")
)

// rejectedError matches ErrPortalRejected while carrying the service's
// human-readable message for display.
type rejectedError struct {
	message string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("portal rejected request: %s", e.message)
}

func (e *rejectedError) Is(target error) bool { return target == ErrPortalRejected }

// RejectionMessage extracts the portal's message from an ErrPortalRejected
// error, or returns the fallback.
func RejectionMessage(err error, fallback string) string {
	var rej *rejectedError
	if errors.As(err, &rej) && rej.message != "" {
		return rej.message
	}
	return fallback
}

// Client is the interface for the external job-portal API.
type Client interface {
	Login(ctx context.Context, username, password string) error
	UploadDocuments(ctx context.Context, req UploadRequest) error
	FetchJobs(ctx context.Context, count int, appliedIDs, rejectedIDs []string) ([]models.Job, error)
	CustomizeCoverLetter(ctx context.Context, details CoverLetterDetails) (string, error)
	SubmitApplication(ctx context.Context, jobID, coverLetterPath string) (time.Time, error)
	Ready(ctx context.Context) error
}

// UploadRequest carries the documents to ingest. Resume is required; a nil
// CoverLetter means none was provided.
type UploadRequest struct {
	ResumeName      string
	Resume          io.Reader
	CoverLetterName string
	CoverLetter     io.Reader
}

// CoverLetterDetails is the customization request payload. CurrentDate is a
// long-form date string ("January 2, 2006") expected by the cover-letter
// service.
type CoverLetterDetails struct {
	JobID       string
	Company     string
	Title       string
	CurrentDate string
}

// HTTPClient implements Client against the portal's HTTP API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new portal HTTP client. baseURL is the root of the
// portal API, e.g. "http://localhost:5000/api".
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var resp envelope
	if err := c.postJSON(ctx, "/login", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &rejectedError{message: resp.Message}
	}
	return nil
}

func (c *HTTPClient) UploadDocuments(ctx context.Context, req UploadRequest) error {
	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)

	part, err := mp.CreateFormFile("resume", req.ResumeName)
	if err != nil {
		return fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, req.Resume); err != nil {
		return fmt.Errorf("copying resume: %w", err)
	}

	if req.CoverLetter != nil {
		part, err := mp.CreateFormFile("coverLetter", req.CoverLetterName)
		if err != nil {
			return fmt.Errorf("building multipart body: %w", err)
		}
		if _, err := io.Copy(part, req.CoverLetter); err != nil {
			return fmt.Errorf("copying cover letter: %w", err)
		}
	}

	if err := mp.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mp.FormDataContentType())

	var resp envelope
	if err := c.do(httpReq, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return &rejectedError{message: resp.Message}
	}
	return nil
}

func (c *HTTPClient) FetchJobs(ctx context.Context, count int, appliedIDs, rejectedIDs []string) ([]models.Job, error) {
	params := url.Values{
		"count":        {strconv.Itoa(count)},
		"appliedJobs":  {strings.Join(appliedIDs, ",")},
		"rejectedJobs": {strings.Join(rejectedIDs, ",")},
	}

	u := fmt.Sprintf("%s/jobs?%s", c.baseURL, params.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	var resp jobsResponse
	if err := c.do(httpReq, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &rejectedError{message: resp.Message}
	}
	if resp.Jobs == nil {
		return []models.Job{}, nil
	}
	return resp.Jobs, nil
}

func (c *HTTPClient) CustomizeCoverLetter(ctx context.Context, details CoverLetterDetails) (string, error) {
	body := coverLetterRequest{
		JobDetails: coverLetterJobDetails{
			ID:          details.JobID,
			Company:     details.Company,
			Title:       details.Title,
			CurrentDate: details.CurrentDate,
		},
	}

	var resp coverLetterResponse
	if err := c.postJSON(ctx, "/cover-letter", body, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &rejectedError{message: resp.Message}
	}
	return resp.CoverLetterPath, nil
}

func (c *HTTPClient) SubmitApplication(ctx context.Context, jobID, coverLetterPath string) (time.Time, error) {
	body := applyRequest{JobID: jobID}
	if coverLetterPath != "" {
		body.CoverLetterPath = &coverLetterPath
	}

	var resp applyResponse
	if err := c.postJSON(ctx, "/apply", body, &resp); err != nil {
		return time.Time{}, err
	}
	if !resp.Success {
		return time.Time{}, &rejectedError{message: resp.Message}
	}

	if resp.ApplicationDate == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(time.RFC3339, resp.ApplicationDate)
	if err != nil {
		// A malformed date does not undo a successful submission.
		return time.Time{}, nil
	}
	return date, nil
}

// Ready probes the portal's jobs endpoint for reachability.
func (c *HTTPClient) Ready(ctx context.Context) error {
	u := c.baseURL + "/jobs?count=0"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrPortalUnreachable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	return c.do(httpReq, out)
}

// do executes the request and decodes the response envelope. The portal signals
// most failures through {success:false} with a 200 or 4xx status; 5xx and
// transport errors are classified as unreachable.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrPortalUnreachable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding portal response: %w", err)
	}
	return nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrPortalTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrPortalTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrPortalUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrPortalUnreachable, err)
}

// --- portal wire types ---

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type jobsResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Jobs    []models.Job `json:"jobs"`
}

type coverLetterRequest struct {
	JobDetails coverLetterJobDetails `json:"jobDetails"`
}

type coverLetterJobDetails struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Title       string `json:"title"`
	CurrentDate string `json:"current_date"`
}

type coverLetterResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	CoverLetterPath string `json:"coverLetterPath"`
}

type applyRequest struct {
	JobID           string  `json:"jobId"`
	CoverLetterPath *string `json:"coverLetterPath"`
}

type applyResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	ApplicationDate string `json:"applicationDate"`
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
