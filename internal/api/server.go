package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"packsmith/internal/catalog"
	"packsmith/internal/config"
	"packsmith/internal/logging"
	"packsmith/internal/workflow"
)

// maxSubmissionBytes caps uploaded replacement files.
const maxSubmissionBytes = 32 << 20

// Server is the HTTP ingress used by the external chat collaborator.
type Server struct {
	bind    string
	logger  *slog.Logger
	manager *workflow.Manager

	listener net.Listener
	server   *http.Server
}

// NewServer builds the ingress server. A blank bind address disables it and
// returns nil.
func NewServer(cfg *config.Config, manager *workflow.Manager, logger *slog.Logger) *Server {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}

	srv := &Server{
		bind:    bind,
		logger:  logging.WithComponent(logger, "api"),
		manager: manager,
	}
	srv.server = &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the route table, exposed separately so tests can drive it
// without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/packs", s.handleCreatePack)
	mux.HandleFunc("GET /api/packs", s.handleListPacks)
	mux.HandleFunc("GET /api/packs/{id}", s.handleGetPack)
	mux.HandleFunc("POST /api/packs/{id}/claims", s.handleClaim)
	mux.HandleFunc("POST /api/packs/{id}/submissions", s.handleSubmit)
	return mux
}

// Start begins serving and arranges shutdown when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", slog.String("error", err.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", slog.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, allowing in-flight requests a short grace
// period.
func (s *Server) Stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

type createPackRequest struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

func (s *Server) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	var req createPackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Version) == "" {
		s.writeError(w, http.StatusBadRequest, "id and version are required")
		return
	}

	// Provisioning downloads the whole source bundle; run it detached from
	// the request so the caller is not held open for the duration.
	ctx := context.WithoutCancel(r.Context())
	go func() {
		if err := s.manager.CreatePack(ctx, req.ID, req.Version); err != nil {
			s.logger.Error("pack provisioning failed",
				slog.String("pack", req.ID),
				slog.String("error", err.Error()),
			)
		}
	}()
	s.writeJSON(w, http.StatusAccepted, map[string]string{"id": req.ID, "status": string(workflow.StatusProvisioning)})
}

type packView struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	RemainingTextures int    `json:"remaining_textures"`
	RemainingSounds   int    `json:"remaining_sounds"`
	ActiveClaims      int    `json:"active_claims"`
}

func viewOf(status workflow.PackStatus) packView {
	return packView{
		ID:                status.ID,
		Status:            string(status.Status),
		RemainingTextures: status.Remaining.Textures,
		RemainingSounds:   status.Remaining.Sounds,
		ActiveClaims:      status.ActiveClaims,
	}
}

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.manager.Packs(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	views := make([]packView, 0, len(statuses))
	for _, status := range statuses {
		views = append(views, viewOf(status))
	}
	s.writeJSON(w, http.StatusOK, map[string][]packView{"packs": views})
}

func (s *Server) handleGetPack(w http.ResponseWriter, r *http.Request) {
	status, ok, err := s.manager.Pack(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "pack not found")
		return
	}
	s.writeJSON(w, http.StatusOK, viewOf(status))
}

type claimRequest struct {
	Kind string `json:"kind"`
	User string `json:"user"`
}

type claimResponse struct {
	Outcome  string `json:"outcome"`
	Token    string `json:"token,omitempty"`
	Claimant string `json:"claimant,omitempty"`
	HeldPath string `json:"held_path,omitempty"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, ok := catalog.ParseKind(req.Kind)
	if !ok || !kind.Distributable() {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown claimable kind %q", req.Kind))
		return
	}
	if strings.TrimSpace(req.User) == "" {
		s.writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	outcome, err := s.manager.Claim(r.Context(), r.PathValue("id"), kind, req.User)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	switch outcome.Code {
	case workflow.ClaimPackUnavailable:
		status = http.StatusNotFound
	case workflow.ClaimAlreadyTaken, workflow.ClaimUserBusy:
		status = http.StatusConflict
	}
	s.writeJSON(w, status, claimResponse{
		Outcome:  string(outcome.Code),
		Token:    outcome.AssetPath,
		Claimant: outcome.Claimant,
		HeldPath: outcome.HeldPath,
	})
}

type submitResponse struct {
	Outcome       string `json:"outcome"`
	Reason        string `json:"reason,omitempty"`
	PackCompleted bool   `json:"pack_completed"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	token := r.FormValue("token")
	user := r.FormValue("user")
	if token == "" || strings.TrimSpace(user) == "" {
		s.writeError(w, http.StatusBadRequest, "token and user are required")
		return
	}

	data, declaredType, err := readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := s.manager.Submit(r.Context(), r.PathValue("id"), token, user, data, declaredType)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusOK
	switch outcome.Code {
	case workflow.SubmitNotAssigned:
		status = http.StatusConflict
	case workflow.SubmitRejected:
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, submitResponse{
		Outcome:       string(outcome.Code),
		Reason:        outcome.Reason,
		PackCompleted: outcome.PackCompleted,
	})
}

func readUpload(r *http.Request) ([]byte, string, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", errors.New("file upload is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSubmissionBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxSubmissionBytes {
		return nil, "", errors.New("upload exceeds size limit")
	}
	return data, declaredContentType(header), nil
}

func declaredContentType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
