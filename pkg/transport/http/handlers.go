package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dailydaisy/planner/pkg/accounts"
	"github.com/dailydaisy/planner/pkg/api"
	"github.com/dailydaisy/planner/pkg/auth"
	"github.com/dailydaisy/planner/pkg/authz"
	"github.com/dailydaisy/planner/pkg/observability"
	"github.com/dailydaisy/planner/pkg/storage"
	"github.com/dailydaisy/planner/pkg/transport"
)

// Adapter serves the planner API over HTTP. It routes requests to the
// appropriate handler; every resource-scoped handler re-runs ownership
// resolution on each request before touching data.
type Adapter struct {
	accounts *accounts.Service
	tokens   *auth.TokenService
	resolver *authz.Resolver
	store    storage.Store
	mux      *http.ServeMux
}

// NewAdapter creates the HTTP adapter and registers all routes.
func NewAdapter(accountsSvc *accounts.Service, tokens *auth.TokenService, resolver *authz.Resolver, store storage.Store) *Adapter {
	a := &Adapter{
		accounts: accountsSvc,
		tokens:   tokens,
		resolver: resolver,
		store:    store,
		mux:      http.NewServeMux(),
	}

	a.mux.HandleFunc("POST /api/auth/register", a.handleRegister)
	a.mux.HandleFunc("POST /api/auth/login", a.handleLogin)
	a.mux.HandleFunc("GET /api/auth/profile", a.handleGetProfile)
	a.mux.HandleFunc("PATCH /api/auth/profile", a.handleUpdateProfile)
	a.mux.HandleFunc("GET /api/planners", a.handleListPlanners)
	a.mux.HandleFunc("POST /api/planners", a.handleCreatePlanner)
	a.mux.HandleFunc("GET /api/planners/{id}/tasks", a.handleListTasks)
	a.mux.HandleFunc("POST /api/planners/{id}/tasks", a.handleCreateTask)
	a.mux.HandleFunc("PATCH /api/tasks/{id}/status", a.handleUpdateTaskStatus)
	a.mux.HandleFunc("DELETE /api/tasks/{id}", a.handleDeleteTask)
	a.mux.HandleFunc("GET /healthz", a.handleHealthz)

	return a
}

// Handler returns the adapter's routes guarded by the authentication gate.
// The gate runs before any handler logic; only the bypass endpoints
// (health, metrics, register, login) are reachable without a token.
func (a *Adapter) Handler() http.Handler {
	gate := auth.Middleware(a.tokens, a.store, auth.DefaultBypassEndpoints)
	return gate(a.mux)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *Adapter) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, api.NewInvalidRequestError("", "invalid JSON body"))
		return
	}
	if req.Username == "" {
		transport.WriteError(w, api.NewInvalidRequestError("username", "username is required"))
		return
	}
	if req.Email == "" {
		transport.WriteError(w, api.NewInvalidRequestError("email", "email is required"))
		return
	}
	if req.Password == "" {
		transport.WriteError(w, api.NewInvalidRequestError("password", "password is required"))
		return
	}

	user, err := a.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, map[string]any{"user": user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *Adapter) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, api.NewInvalidRequestError("", "invalid JSON body"))
		return
	}

	user, err := a.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	token, err := a.tokens.Issue(user.ID)
	if err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}

func (a *Adapter) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	transport.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

type updateProfileRequest struct {
	Location *string `json:"location"`
}

func (a *Adapter) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, api.NewInvalidRequestError("", "invalid JSON body"))
		return
	}

	// Only the location is mutable; an omitted field leaves it untouched.
	if req.Location != nil {
		updated, err := a.accounts.UpdateLocation(r.Context(), user.ID, *req.Location)
		if err != nil {
			transport.WriteError(w, err)
			return
		}
		user = updated
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (a *Adapter) handleListPlanners(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	planners, err := a.store.ListPlanners(r.Context(), user.ID)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	if planners == nil {
		planners = []*api.Planner{}
	}

	transport.WriteJSON(w, http.StatusOK, planners)
}

type createPlannerRequest struct {
	Name     string `json:"name"`
	ViewType string `json:"view_type"`
}

func (a *Adapter) handleCreatePlanner(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req createPlannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, api.NewInvalidRequestError("", "invalid JSON body"))
		return
	}
	if req.Name == "" {
		transport.WriteError(w, api.NewInvalidRequestError("name", "name is required"))
		return
	}
	if req.ViewType == "" {
		req.ViewType = api.DefaultViewType
	}

	planner := &api.Planner{
		UserID:   user.ID,
		Name:     req.Name,
		ViewType: req.ViewType,
	}
	if err := a.store.CreatePlanner(r.Context(), planner); err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, planner)
}

func (a *Adapter) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	plannerID, ok := pathID(w, r)
	if !ok {
		return
	}

	planner, err := a.resolver.Planner(r.Context(), user.ID, plannerID)
	if err != nil {
		writeDenial(w, err)
		return
	}

	tasks, err := a.store.ListTasks(r.Context(), planner.ID)
	if err != nil {
		transport.WriteError(w, err)
		return
	}
	if tasks == nil {
		tasks = []*api.Task{}
	}

	transport.WriteJSON(w, http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

func (a *Adapter) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	plannerID, ok := pathID(w, r)
	if !ok {
		return
	}

	planner, err := a.resolver.Planner(r.Context(), user.ID, plannerID)
	if err != nil {
		writeDenial(w, err)
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, api.NewInvalidRequestError("", "invalid JSON body"))
		return
	}
	if req.Title == "" {
		transport.WriteError(w, api.NewInvalidRequestError("title", "title is required"))
		return
	}
	if req.Status == "" {
		req.Status = api.DefaultTaskStatus
	}

	task := &api.Task{
		PlannerID: planner.ID,
		Title:     req.Title,
		Status:    req.Status,
	}
	if err := a.store.CreateTask(r.Context(), task); err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, task)
}

type updateTaskStatusRequest struct {
	Status *string `json:"status"`
}

func (a *Adapter) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	task, _, err := a.resolver.Task(r.Context(), user.ID, taskID)
	if err != nil {
		writeDenial(w, err)
		return
	}

	var req updateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, api.NewInvalidRequestError("", "invalid JSON body"))
		return
	}

	// An omitted status keeps the current one.
	if req.Status != nil {
		if err := a.store.UpdateTaskStatus(r.Context(), task.ID, *req.Status); err != nil {
			transport.WriteError(w, err)
			return
		}
		task.Status = *req.Status
	}

	transport.WriteJSON(w, http.StatusOK, task)
}

func (a *Adapter) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	taskID, ok := pathID(w, r)
	if !ok {
		return
	}

	task, _, err := a.resolver.Task(r.Context(), user.ID, taskID)
	if err != nil {
		writeDenial(w, err)
		return
	}

	if err := a.store.DeleteTask(r.Context(), task.ID); err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]any{"message": "task deleted"})
}

func (a *Adapter) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := a.store.HealthCheck(r.Context()); err != nil {
		transport.WriteErrorResponse(w, api.NewServerError("storage unavailable"),
			http.StatusServiceUnavailable)
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// pathID parses the {id} path segment. A non-numeric ID is a bad request;
// the false return means the error response was already written.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		transport.WriteError(w, api.NewInvalidRequestError("id", "id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// writeDenial writes an ownership resolution failure and records it in the
// denial metrics by kind.
func writeDenial(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		observability.AuthzDenialsTotal.WithLabelValues("not_found").Inc()
	case errors.Is(err, authz.ErrForbidden):
		observability.AuthzDenialsTotal.WithLabelValues("forbidden").Inc()
	}
	transport.WriteError(w, err)
}
