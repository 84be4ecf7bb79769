package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"drugdex/m/domain"
	"drugdex/m/internal/catalog"
	"drugdex/m/internal/export"
	"drugdex/m/internal/favorites"
	"drugdex/m/internal/metrics"
	"drugdex/m/internal/prefs"
	"drugdex/m/internal/textclean"
	"drugdex/m/internal/viewer"
)

type ctxKey string

const (
	ctxRole ctxKey = "role"

	roleEditor = "editor"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	store      *catalog.Store
	favs       *favorites.Set
	prefs      *prefs.Store
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	secret     string
	editorHash []byte

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Options configures a Handler.
type Options struct {
	Store          *catalog.Store
	Favorites      *favorites.Set
	Prefs          *prefs.Store
	Metrics        *metrics.Metrics
	Logger         *logrus.Logger
	Secret         string
	EditorPassword string
}

// New constructs a Handler. The editor password is only kept as a bcrypt hash.
func New(opts Options) (*Handler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.EditorPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash editor password: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	m.Records(opts.Store.Len())
	return &Handler{
		store:      opts.Store,
		favs:       opts.Favorites,
		prefs:      opts.Prefs,
		metrics:    m,
		logger:     logger,
		secret:     opts.Secret,
		editorHash: hash,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Post("/auth/login", h.login)

	r.Route("/drugs", func(r chi.Router) {
		r.Get("/", h.listDrugs)
		r.Get("/random", h.randomDrug)
		r.Get("/{id}", h.getDrug)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Get("/", h.listFavorites)
		r.Post("/{id}", h.toggleFavorite)
	})

	r.Get("/theme", h.getTheme)
	r.Post("/theme/toggle", h.toggleTheme)

	r.Route("/editor", func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/drugs", h.editorListDrugs)
		r.Post("/drugs", h.saveDrug)
		r.Put("/drugs/{id}", h.replaceDrug)
		r.Delete("/drugs/{id}", h.deleteDrug)
		r.Get("/export", h.exportDrugs)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "records": h.store.Len()})
}

// Authentication helpers

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (h *Handler) generateToken(role string) (string, error) {
	claims := authClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.secret))
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])
		token, err := jwt.ParseWithClaims(tokenString, &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.secret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims, ok := token.Claims.(*authClaims)
		if !ok || claims.Role != roleEditor {
			respondError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		ctx := context.WithValue(r.Context(), ctxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if bcrypt.CompareHashAndPassword(h.editorHash, []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := h.generateToken(roleEditor)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Viewer handlers

type listResponse struct {
	Cards []viewer.Card `json:"cards"`
	Empty string        `json:"empty,omitempty"`
}

func (h *Handler) listDrugs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := catalog.Query{
		Search:    strings.TrimSpace(q.Get("query")),
		Category:  strings.TrimSpace(q.Get("category")),
		Mode:      catalog.ParseMode(q.Get("mode")),
		Scope:     catalog.ScopeViewer,
		Favorites: h.favs,
	}
	drugs := catalog.Filter(h.store.List(), query)
	resp := listResponse{Cards: make([]viewer.Card, 0, len(drugs))}
	for _, d := range drugs {
		resp.Cards = append(resp.Cards, viewer.Card{Drug: d, Favorite: h.favs.Contains(d.ID)})
	}
	if len(resp.Cards) == 0 {
		resp.Empty = viewer.EmptyMessage(query.Mode)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) getDrug(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSavedID(w, r)
	if !ok {
		return
	}
	d, found := h.store.Get(id)
	if !found {
		respondError(w, http.StatusNotFound, "drug not found")
		return
	}
	respondJSON(w, http.StatusOK, viewer.NewDetail(d, h.favs))
}

func (h *Handler) randomDrug(w http.ResponseWriter, r *http.Request) {
	h.rngMu.Lock()
	d, ok := h.store.Random(h.rng)
	h.rngMu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "catalog is empty")
		return
	}
	respondJSON(w, http.StatusOK, viewer.NewDetail(d, h.favs))
}

// Favorites handlers

type favoritesResponse struct {
	IDs   []domain.RecordID `json:"ids"`
	Drugs []domain.Drug     `json:"drugs"`
}

func (h *Handler) listFavorites(w http.ResponseWriter, r *http.Request) {
	ids := h.favs.IDs()
	resp := favoritesResponse{IDs: ids, Drugs: make([]domain.Drug, 0, len(ids))}
	for _, id := range ids {
		// favorites may point at deleted records
		if d, ok := h.store.Get(id); ok {
			resp.Drugs = append(resp.Drugs, d)
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSavedID(w, r)
	if !ok {
		return
	}
	if _, found := h.store.Get(id); !found && !h.favs.Contains(id) {
		respondError(w, http.StatusNotFound, "drug not found")
		return
	}
	fav, err := h.favs.ToggleAndSave(r.Context(), h.prefs, id)
	if err != nil {
		h.logger.WithError(err).Error("unable to persist favorites")
		respondError(w, http.StatusInternalServerError, "unable to save favorites")
		return
	}
	h.metrics.FavoriteToggled()
	respondJSON(w, http.StatusOK, map[string]any{"id": id, "favorite": fav})
}

// Theme handlers

func (h *Handler) getTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.prefs.Theme(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to read theme")
		return
	}
	respondJSON(w, http.StatusOK, map[string]prefs.Theme{"theme": theme})
}

func (h *Handler) toggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.prefs.ToggleTheme(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("unable to toggle theme")
		respondError(w, http.StatusInternalServerError, "unable to save theme")
		return
	}
	respondJSON(w, http.StatusOK, map[string]prefs.Theme{"theme": theme})
}

// Editor handlers

func (h *Handler) editorListDrugs(w http.ResponseWriter, r *http.Request) {
	query := catalog.Query{
		Search: strings.TrimSpace(r.URL.Query().Get("query")),
		Scope:  catalog.ScopeEditor,
	}
	respondJSON(w, http.StatusOK, catalog.Filter(h.store.List(), query))
}

func (h *Handler) saveDrug(w http.ResponseWriter, r *http.Request) {
	var d domain.Drug
	if err := decodeJSON(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.upsert(w, d)
}

func (h *Handler) replaceDrug(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSavedID(w, r)
	if !ok {
		return
	}
	var d domain.Drug
	if err := decodeJSON(r, &d); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !d.ID.IsNew() && d.ID != id {
		respondError(w, http.StatusBadRequest, "id in body does not match path")
		return
	}
	d.ID = id
	h.upsert(w, d)
}

func (h *Handler) upsert(w http.ResponseWriter, d domain.Drug) {
	if field, found := textclean.MarkupField(d); found {
		respondError(w, http.StatusBadRequest, field+" must not contain HTML markup")
		return
	}
	if strings.TrimSpace(d.GenericName) == "" {
		respondError(w, http.StatusBadRequest, "generic_name is required")
		return
	}

	created := d.ID.IsNew()
	saved, err := h.store.Upsert(d)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondError(w, http.StatusNotFound, "drug not found")
		return
	case errors.Is(err, catalog.ErrInvalidID):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "unable to save drug")
		return
	}

	op, status := "update", http.StatusOK
	if created {
		op, status = "create", http.StatusCreated
	}
	h.metrics.Mutation(op, h.store.Len())
	h.logger.WithFields(logrus.Fields{"id": saved.ID, "op": op}).Info("drug saved")
	respondJSON(w, status, saved)
}

func (h *Handler) deleteDrug(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSavedID(w, r)
	if !ok {
		return
	}
	if !h.store.Remove(id) {
		respondError(w, http.StatusNotFound, "drug not found")
		return
	}
	h.metrics.Mutation("delete", h.store.Len())
	h.logger.WithField("id", id).Info("drug deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) exportDrugs(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "json"
	}

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)
	drugs := h.store.List()
	switch format {
	case "json":
		err = export.WriteJSON(&buf, drugs)
		contentType, filename = "application/json", export.JSONFilename
	case "xlsx":
		err = export.WriteXLSX(&buf, drugs)
		contentType, filename = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.XLSXFilename
	default:
		respondError(w, http.StatusBadRequest, "format must be json or xlsx")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("format", format).Error("export failed")
		respondError(w, http.StatusInternalServerError, "unable to export catalog")
		return
	}

	h.metrics.Exported(format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Helpers

// parseSavedID reads the {id} URL param. The unsaved sentinel is rejected
// because nothing is stored under it.
func parseSavedID(w http.ResponseWriter, r *http.Request) (domain.RecordID, bool) {
	id, err := domain.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	if id.IsNew() {
		respondError(w, http.StatusBadRequest, "record has not been saved")
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
