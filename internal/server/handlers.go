package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/crosspub/crosspub/internal/models"
	"github.com/crosspub/crosspub/internal/platforms"
	"github.com/crosspub/crosspub/internal/shared"
	"github.com/crosspub/crosspub/internal/tasks"
)

// Publisher runs publish rounds. Satisfied by *tasks.Orchestrator.
type Publisher interface {
	Submit(ctx context.Context, req tasks.PublishRequest, progress chan<- tasks.ProgressUpdate) (*tasks.PublishResult, error)
	Cancel(taskID string) error
}

// AccountReader lists stored accounts. Satisfied by *repositories.AccountRepository.
type AccountReader interface {
	List(criteria map[string]any) ([]*models.Account, error)
}

// TaskReader reads task history. Satisfied by *repositories.TaskRepository.
type TaskReader interface {
	Get(id string) (*models.PublishTask, error)
	List(criteria map[string]any) ([]*models.PublishTask, error)
}

// API bundles the publish endpoints behind one [Handler].
type API struct {
	publisher Publisher
	accounts  AccountReader
	taskRepo  TaskReader
	logger    *log.Logger
}

func NewAPI(publisher Publisher, accounts AccountReader, taskRepo TaskReader, logger *log.Logger) *API {
	return &API{publisher: publisher, accounts: accounts, taskRepo: taskRepo, logger: logger}
}

// Routes implements [Handler].
func (a *API) Routes() []string {
	return []string{
		"/api/publish",
		"/api/cancel",
		"/api/tasks",
		"/api/task",
		"/api/accounts",
		"/api/platforms",
		"/health",
	}
}

// ServeHTTP implements [Handler].
func (a *API) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	switch req.URL.Path {
	case "/api/publish":
		a.handlePublish(w, req)
	case "/api/cancel":
		a.handleCancel(w, req)
	case "/api/tasks":
		a.handleTasks(w, req)
	case "/api/task":
		a.handleTask(w, req)
	case "/api/accounts":
		a.handleAccounts(w, req)
	case "/api/platforms":
		a.handlePlatforms(w, req)
	case "/health":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	default:
		writeError(w, http.StatusNotFound, "", "not found")
	}
}

// handlePublish runs one synchronous publish round and returns the aggregate
// result. Validation failures come back as 400 with the stable error code.
func (a *API) handlePublish(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	var publishReq tasks.PublishRequest
	if err := json.NewDecoder(req.Body).Decode(&publishReq); err != nil {
		writeError(w, http.StatusBadRequest, "", "invalid request body: "+err.Error())
		return
	}

	result, err := a.publisher.Submit(req.Context(), publishReq, nil)
	if err != nil {
		if code := shared.CodeOf(err); code != "" {
			writeError(w, http.StatusBadRequest, code, err.Error())
			return
		}
		a.logger.Error("publish failed", "error", err)
		writeError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleCancel(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	var body struct {
		TaskID string `json:"taskId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.TaskID == "" {
		writeError(w, http.StatusBadRequest, "", "taskId is required")
		return
	}

	if err := a.publisher.Cancel(body.TaskID); err != nil {
		writeError(w, http.StatusNotFound, "", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelling", "taskId": body.TaskID})
}

func (a *API) handleTasks(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	criteria := map[string]any{"limit": 50}
	if status := req.URL.Query().Get("status"); status != "" {
		criteria["status"] = status
	}

	list, err := a.taskRepo.List(criteria)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	payload := make([]taskDTO, 0, len(list))
	for _, task := range list {
		payload = append(payload, toTaskDTO(task))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) handleTask(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	id := req.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "", "id is required")
		return
	}

	task, err := a.taskRepo.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

func (a *API) handleAccounts(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	criteria := map[string]any{}
	if platform := req.URL.Query().Get("platform"); platform != "" {
		criteria["platform"] = platform
	}

	accounts, err := a.accounts.List(criteria)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	payload := make([]accountDTO, 0, len(accounts))
	for _, account := range accounts {
		payload = append(payload, toAccountDTO(account))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) handlePlatforms(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "", "method not allowed")
		return
	}

	specs := platforms.All()
	payload := make([]platformDTO, 0, len(specs))
	for _, spec := range specs {
		payload = append(payload, platformDTO{
			ID:         string(spec.ID),
			Name:       spec.Name,
			NameEN:     spec.NameEN,
			Color:      spec.Color,
			UploadURL:  spec.UploadURL,
			AutoSubmit: spec.AutoSubmit,
		})
	}
	writeJSON(w, http.StatusOK, payload)
}

type accountDTO struct {
	ID            string     `json:"id"`
	Platform      string     `json:"platform"`
	DisplayName   string     `json:"displayName"`
	ProfileDir    string     `json:"profileDir"`
	LoggedIn      bool       `json:"loggedIn"`
	LastCheckedAt *time.Time `json:"lastCheckedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func toAccountDTO(account *models.Account) accountDTO {
	return accountDTO{
		ID:            account.ID(),
		Platform:      string(account.Platform()),
		DisplayName:   account.DisplayName(),
		ProfileDir:    account.ProfileDir(),
		LoggedIn:      account.LoggedIn(),
		LastCheckedAt: account.LastCheckedAt(),
		CreatedAt:     account.CreatedAt(),
	}
}

type entryDTO struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"accountId"`
	Status       string     `json:"status"`
	ErrorCode    string     `json:"errorCode,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	Hint         string     `json:"hint,omitempty"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty"`
}

type taskDTO struct {
	ID          string     `json:"id"`
	VideoPath   string     `json:"videoPath"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	Entries     []entryDTO `json:"entries"`
}

func toTaskDTO(task *models.PublishTask) taskDTO {
	entries := make([]entryDTO, 0, len(task.Platforms()))
	for _, entry := range task.Platforms() {
		entries = append(entries, entryDTO{
			ID:           entry.ID(),
			AccountID:    entry.AccountID(),
			Status:       string(entry.Status()),
			ErrorCode:    string(entry.ErrorCode()),
			ErrorMessage: entry.ErrorMessage(),
			Hint:         tasks.Classify(entry.ErrorCode(), ""),
			PublishedAt:  entry.PublishedAt(),
		})
	}
	return taskDTO{
		ID:          task.ID(),
		VideoPath:   task.VideoPath(),
		Title:       task.Title(),
		Description: task.Description(),
		Tags:        task.Tags(),
		Status:      string(task.Status()),
		ScheduledAt: task.ScheduledAt(),
		CreatedAt:   task.CreatedAt(),
		Entries:     entries,
	}
}

type platformDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NameEN     string `json:"nameEn"`
	Color      string `json:"color"`
	UploadURL  string `json:"uploadUrl"`
	AutoSubmit bool   `json:"autoSubmit"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code shared.Code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]string{"error": message}
	if code != "" {
		body["code"] = string(code)
	}
	_ = json.NewEncoder(w).Encode(body)
}
