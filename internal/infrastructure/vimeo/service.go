package vimeo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"auto_sort_vimeo/config"
	"auto_sort_vimeo/internal/domain"
	httpclient "auto_sort_vimeo/internal/infrastructure/http"
	"auto_sort_vimeo/internal/logger"
)

// listFields limits the video listing to the fields the classifier and
// reconciler actually read.
const listFields = "uri,name,description,created_time,modified_time,release_time,duration,parent_folder,is_playable"

// Service handles Vimeo API interactions
type Service struct {
	token   string
	client  *httpclient.HTTPClient
	baseURL string
	log     zerolog.Logger

	mu      sync.Mutex
	userURI string
}

// NewService creates a new Vimeo service
func NewService(cfg *config.Config, httpClient *httpclient.HTTPClient) *Service {
	return &Service{
		token:   cfg.VimeoAccessToken,
		client:  httpClient,
		baseURL: cfg.VimeoBaseURL,
		log:     logger.With("vimeo"),
	}
}

// videoItem represents a video object from the Vimeo API
type videoItem struct {
	URI          string     `json:"uri"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CreatedTime  *time.Time `json:"created_time"`
	ModifiedTime *time.Time `json:"modified_time"`
	ReleaseTime  *time.Time `json:"release_time"`
	Duration     int        `json:"duration"`
	IsPlayable   bool       `json:"is_playable"`
	ParentFolder *struct {
		URI  string `json:"uri"`
		Name string `json:"name"`
	} `json:"parent_folder"`
}

// listResponse represents a paginated video listing
type listResponse struct {
	Data   []videoItem `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// Verify checks API connectivity and returns the account display name.
func (s *Service) Verify(ctx context.Context) (string, error) {
	resp, err := s.do(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiError("verify connection", resp)
	}

	var result struct {
		URI  string `json:"uri"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode /me response: %w", err)
	}

	s.mu.Lock()
	s.userURI = result.URI
	s.mu.Unlock()

	return result.Name, nil
}

// ListRecentlyModified fetches videos modified since the given time,
// newest first. The listing is sorted by modified time, so fetching
// stops at the first video outside the window.
func (s *Service) ListRecentlyModified(ctx context.Context, since time.Time) ([]*domain.VideoRecord, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	params.Set("sort", "modified_time")
	params.Set("direction", "desc")
	params.Set("fields", listFields)

	path := "/me/videos?" + params.Encode()

	var records []*domain.VideoRecord
	for path != "" {
		resp, err := s.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			err := apiError("list videos", resp)
			resp.Body.Close()
			return nil, err
		}

		var page listResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode video listing: %w", err)
		}

		for _, item := range page.Data {
			if item.ModifiedTime == nil {
				continue
			}
			if item.ModifiedTime.Before(since) {
				return records, nil
			}
			records = append(records, toRecord(item))
		}

		path = page.Paging.Next
	}

	return records, nil
}

// FetchVideo retrieves a single video by ID.
func (s *Service) FetchVideo(ctx context.Context, videoID string) (*domain.VideoRecord, error) {
	params := url.Values{}
	params.Set("fields", listFields)

	resp, err := s.do(ctx, http.MethodGet, "/videos/"+videoID+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("fetch video "+videoID, resp)
	}

	var item videoItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, fmt.Errorf("decode video %s: %w", videoID, err)
	}
	return toRecord(item), nil
}

// Rename updates a video's title.
func (s *Service) Rename(ctx context.Context, videoID, title string) error {
	body, err := json.Marshal(map[string]string{"name": title})
	if err != nil {
		return err
	}

	resp, err := s.do(ctx, http.MethodPatch, "/videos/"+videoID, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return apiError("rename video "+videoID, resp)
	}

	s.log.Info().Str("video_id", videoID).Str("title", title).Msg("video renamed")
	return nil
}

// MoveToFolder files a video under the given folder (project).
func (s *Service) MoveToFolder(ctx context.Context, videoID, folderID string) error {
	userURI, err := s.resolveUserURI(ctx)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/projects/%s/videos/%s", userURI, folderID, videoID)
	resp, err := s.do(ctx, http.MethodPut, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("move video "+videoID, resp)
	}

	s.log.Info().Str("video_id", videoID).Str("folder_id", folderID).Msg("video moved")
	return nil
}

// LiveEvent is the result of creating a scheduled live event.
type LiveEvent struct {
	ID        string
	URI       string
	StreamKey string
	RTMPLink  string
}

// CreateLiveEvent schedules a new live event on the platform. Requires
// a plan with live-event API access.
func (s *Service) CreateLiveEvent(ctx context.Context, title, description string, scheduledAt time.Time, timezone string) (*LiveEvent, error) {
	payload := map[string]any{
		"title":       title,
		"description": description,
		"time_zone":   timezone,
		"privacy":     map[string]string{"view": "unlisted"},
		"schedule": map[string]string{
			"scheduled_time": scheduledAt.Format(time.RFC3339),
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(ctx, http.MethodPost, "/me/live_events", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiError("create live event", resp)
	}

	var result struct {
		URI       string `json:"uri"`
		StreamKey string `json:"stream_key"`
		RTMPLink  string `json:"rtmp_link"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode live event response: %w", err)
	}

	event := &LiveEvent{
		ID:        idFromURI(result.URI),
		URI:       result.URI,
		StreamKey: result.StreamKey,
		RTMPLink:  result.RTMPLink,
	}
	s.log.Info().Str("event_id", event.ID).Str("uri", event.URI).Msg("live event created")
	return event, nil
}

func (s *Service) resolveUserURI(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.userURI
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}
	if _, err := s.Verify(ctx); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userURI, nil
}

func (s *Service) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	target := path
	if !strings.HasPrefix(path, "http") {
		target = s.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/vnd.vimeo.*+json;version=3.4")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrCollaborator, method, path, err)
	}
	return resp, nil
}

func apiError(operation string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%w: %s: status %d: %s", domain.ErrCollaborator, operation, resp.StatusCode, strings.TrimSpace(string(detail)))
}

func toRecord(item videoItem) *domain.VideoRecord {
	record := &domain.VideoRecord{
		ID:              idFromURI(item.URI),
		Title:           item.Name,
		Description:     item.Description,
		DurationSeconds: item.Duration,
		CreatedTime:     item.CreatedTime,
		ModifiedTime:    item.ModifiedTime,
		ReleaseTime:     item.ReleaseTime,
		IsPlayable:      item.IsPlayable,
	}
	if item.ParentFolder != nil {
		record.ParentFolderID = idFromURI(item.ParentFolder.URI)
		record.ParentFolderName = item.ParentFolder.Name
	}
	return record
}

func idFromURI(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}
