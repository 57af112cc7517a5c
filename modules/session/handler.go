package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"graf-doodle-server/modules/common/utils"
	"graf-doodle-server/modules/encoder"
	"graf-doodle-server/modules/prompt"
)

type Handler struct {
	manager        *Manager
	maxUploadBytes int64
	logger         zerolog.Logger
}

func NewHandler(manager *Manager, maxUploadBytes int64, logger zerolog.Logger) *Handler {
	return &Handler{
		manager:        manager,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Register - 세션 라우트 등록
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/sessions", h.HandleCreate).Methods("POST")
	r.HandleFunc("/api/sessions/{id}", h.HandleGet).Methods("GET")
	r.HandleFunc("/api/sessions/{id}", h.HandleDelete).Methods("DELETE")
	r.HandleFunc("/api/sessions/{id}/image", h.HandleUpload).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/style", h.HandleSelectStyle).Methods("PUT")
	r.HandleFunc("/api/sessions/{id}/settings", h.HandleUpdateSettings).Methods("PATCH")
	r.HandleFunc("/api/sessions/{id}/prompt", h.HandlePrompt).Methods("GET")
	r.HandleFunc("/api/sessions/{id}/generate", h.HandleGenerate).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/redo", h.HandleRedo).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/restart", h.HandleRestart).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/credential", h.HandleCredential).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/hd", h.HandleGenerateHD).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/download", h.HandleDownload).Methods("GET")
	r.HandleFunc("/ws", h.HandleWebSocket)
}

// HandleCreate - POST /api/sessions
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	writeJSON(w, http.StatusCreated, s.Snapshot())
}

// HandleGet - GET /api/sessions/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// HandleDelete - DELETE /api/sessions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Remove(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpload - POST /api/sessions/{id}/image
// multipart "file" 필드 또는 JSON {"dataUri": "..."}
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var err error
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		err = h.uploadMultipart(s, w, r)
	case "application/json":
		var req struct {
			DataURI string `json:"dataUri"`
		}
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			err = s.failUpload(decodeErr)
		} else {
			err = s.UploadDataURI(req.DataURI)
		}
	default:
		// 본문 전체를 파일로 취급
		body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1)
		err = s.UploadFile(body, r.Header.Get("Content-Type"))
	}

	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) uploadMultipart(s *Session, w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return s.failUpload(err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return s.failUpload(err)
	}
	defer file.Close()
	return s.UploadFile(file, header.Header.Get("Content-Type"))
}

// HandleSelectStyle - PUT /api/sessions/{id}/style
func (h *Handler) HandleSelectStyle(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		StyleID string `json:"styleId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request format"))
		return
	}
	if err := s.SelectStyle(req.StyleID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// HandleUpdateSettings - PATCH /api/sessions/{id}/settings
func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var patch SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request format"))
		return
	}
	if _, err := s.UpdateSettings(patch); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// HandlePrompt - GET /api/sessions/{id}/prompt
func (h *Handler) HandlePrompt(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"prompt": s.ComposedPrompt()})
}

// HandleGenerate - POST /api/sessions/{id}/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, err := s.Generate(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// HandleRedo - POST /api/sessions/{id}/redo
func (h *Handler) HandleRedo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Redo(); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// HandleRestart - POST /api/sessions/{id}/restart
func (h *Handler) HandleRestart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.Restart()
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// HandleCredential - POST /api/sessions/{id}/credential
func (h *Handler) HandleCredential(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid request format"))
		return
	}
	s.Credentials().Select(req.APIKey)
	has, _ := s.Credentials().HasSelectedKey(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"hasSelectedKey": has})
}

// HandleGenerateHD - POST /api/sessions/{id}/hd
// X-Api-Key 헤더는 선택된 키가 없을 때 채택됨
func (h *Handler) HandleGenerateHD(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	dl, err := s.GenerateHD(r.Context(), s.Credentials().Offer(r.Header.Get("X-Api-Key")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeDownload(w, r, dl)
}

// HandleDownload - GET /api/sessions/{id}/download[?format=webp]
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	dl, err := s.Download()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeDownload(w, r, dl)
}

// HandleWebSocket - GET /ws?session=<id>
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	s, err := h.manager.Get(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.manager.Hub().Serve(w, r, id, Event{
		Type:      EventPhaseChanged,
		SessionID: id,
		Phase:     s.Phase(),
	})
}

func (h *Handler) writeDownload(w http.ResponseWriter, r *http.Request, dl Download) {
	img, err := encoder.ParseDataURI(dl.DataURI)
	if err != nil {
		h.writeError(w, err)
		return
	}
	data, err := img.Bytes()
	if err != nil {
		h.writeError(w, &encoder.DecodeError{Reason: err.Error()})
		return
	}

	filename, contentType := dl.Filename, img.MIMEType
	if r.URL.Query().Get("format") == "webp" {
		data, err = utils.ConvertToWebP(data, utils.DefaultWebPQuality, h.logger)
		if err != nil {
			h.logger.Error().Err(err).Msg("❌ [Session] WebP conversion failed")
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to convert image"))
			return
		}
		filename = strings.TrimSuffix(filename, ".png") + ".webp"
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return s, true
}

// writeError - 에러 종류별 상태 코드 결정
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Int("status", status).Msg("❌ [Session] request failed")
	}
	writeJSON(w, status, errorBody(err.Error()))
}

// statusFor maps anything not recognized here to 502: what remains are
// model and provider failures.
func statusFor(err error) int {
	var (
		upload     *UploadError
		decode     *encoder.DecodeError
		validation *prompt.ValidationError
	)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBusy), errors.Is(err, ErrNoImage), errors.Is(err, ErrNoResult), errors.Is(err, ErrStale):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownStyle), errors.As(err, &upload), errors.As(err, &decode), errors.As(err, &validation):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
