// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_portal/internal/app"
	"hotel_portal/internal/auth"
	"hotel_portal/internal/domain"
)

const defaultRadiusMiles = 2

// Fetcher enriches a hotel from the outside world.
type Fetcher interface {
	FetchAttractions(ctx context.Context, hotelID string, radiusMiles float64) ([]domain.Attraction, error)
	FetchDescriptions(ctx context.Context, hotelID string) (domain.Descriptions, error)
}

type Handlers struct {
	Auth     *auth.Service
	Q        *app.QueryService
	Reviews  *app.ReviewService
	Hotels   domain.HotelRepository
	Fetch    Fetcher
	Saved    domain.LinkRepository
	Visited  domain.LinkRepository
	Sessions domain.SessionStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Session(h.Sessions))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) { http.Redirect(w, r, "/home", http.StatusFound) })
		r.Get("/home", h.home)
		r.Get("/login", h.loginPage)
		r.Post("/login", h.login)
		r.Get("/register", h.registerPage)
		r.Post("/register", h.register)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/welcome", h.welcome)
			r.Get("/logout", h.logout)
			r.Post("/logout", h.logout)
			r.Get("/hotelInfo", h.hotelInfo)
			r.Get("/hotelSearch", h.hotelSearch)
			r.Get("/reviews", h.reviews)
			r.Post("/addReview", h.addReview)
			r.Post("/editReview", h.editReview)
			r.Get("/attractions", h.attractions)
			r.Get("/descriptions", h.descriptions)
			r.Get("/expedia", h.expedia)
			r.Get("/profile", h.profile)
			r.Post("/profile", h.profileAction)
			r.Post("/addFavourites", h.addFavourite)
		})
	})
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeTagged is writeJSON with a weak ETag and If-None-Match short-circuit.
func writeTagged(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write tagged body")
	}
}

func redirect(w http.ResponseWriter, r *http.Request, path string, q url.Values) {
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusFound)
}

// fail redirects to path with ?error=<status ordinal>; SQL text never leaves the server.
func fail(w http.ResponseWriter, r *http.Request, path string, q url.Values, err error) {
	st := domain.StatusOf(err)
	ev := log.Debug()
	if st == domain.Error || st == domain.SqlException || st == domain.FetchFailed {
		ev = log.Warn()
	}
	ev.Err(err).Str("path", r.URL.Path).Str("status", st.Name()).Msg("request failed")
	if q == nil {
		q = url.Values{}
	}
	q.Set("error", strconv.Itoa(int(st)))
	redirect(w, r, path, q)
}

func hotelQuery(id string) url.Values { return url.Values{"hotelId": {id}} }

// errorMessage turns ?error=<n> back into the status message.
func errorMessage(r *http.Request) string {
	code, err := strconv.Atoi(r.URL.Query().Get("error"))
	if err != nil {
		return ""
	}
	return domain.StatusFromCode(code).Message()
}

func hotelID(r *http.Request) string { return strings.TrimSpace(r.FormValue("hotelId")) }

// ---- public pages ----

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	if CurrentUser(r) != "" {
		http.Redirect(w, r, "/welcome", http.StatusFound)
		return
	}
	writeJSON(w, map[string]string{
		"message":  "Welcome to the hotel portal",
		"login":    "/login",
		"register": "/register",
	})
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"error":      errorMessage(r),
		"registered": r.URL.Query().Get("registered") == "true",
	})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	user := strings.TrimSpace(r.FormValue("username"))
	if err := h.Auth.Login(r.Context(), user, r.FormValue("password")); err != nil {
		fail(w, r, "/login", nil, err)
		return
	}
	id, err := h.Sessions.Create(r.Context(), map[string]string{userAttr: user})
	if err != nil {
		fail(w, r, "/login", nil, domain.Fail(domain.Error, err))
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.Sessions.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info().Str("user", user).Msg("user logged in")
	http.Redirect(w, r, "/welcome", http.StatusFound)
}

func (h *Handlers) registerPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"error": errorMessage(r)})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Register(r.Context(), r.FormValue("username"), r.FormValue("password")); err != nil {
		fail(w, r, "/register", nil, err)
		return
	}
	redirect(w, r, "/login", url.Values{"registered": {"true"}})
}

// ---- signed-in pages ----

func (h *Handlers) welcome(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	msg, err := h.Auth.LastLoginMessage(r.Context(), user)
	if err != nil {
		log.Warn().Err(err).Str("user", user).Msg("last login lookup failed")
	}
	cities, err := h.Q.Cities(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", domain.StatusOf(err).Message())
		return
	}
	writeJSON(w, map[string]any{
		"user":      user,
		"lastLogin": msg,
		"cities":    cities,
		"error":     errorMessage(r),
	})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := sessionFrom(r); ok {
		if err := h.Sessions.Destroy(r.Context(), s.id); err != nil {
			log.Warn().Err(err).Msg("session destroy failed")
		}
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handlers) hotelInfo(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	hotel, err := h.Q.HotelInfo(r.Context(), id)
	if err != nil {
		fail(w, r, "/hotelSearch", nil, err)
		return
	}
	reviews, err := h.Q.Reviews(r.Context(), id, 0)
	if err != nil {
		fail(w, r, "/hotelSearch", nil, err)
		return
	}
	user := CurrentUser(r)
	saved, err := h.Saved.ListByUser(r.Context(), user)
	if err != nil {
		log.Warn().Err(err).Str("user", user).Msg("saved hotels lookup failed")
	}
	if s, ok := sessionFrom(r); ok {
		if err := h.Sessions.Put(r.Context(), s.id, "lastHotel", id); err != nil {
			log.Warn().Err(err).Str("user", user).Msg("session update failed")
		}
	}
	writeTagged(w, r, map[string]any{
		"hotel":   toHotelView(hotel),
		"reviews": toReviewViews(reviews),
		"saved":   slices.Contains(saved, id),
		"error":   errorMessage(r),
	})
}

func (h *Handlers) hotelSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hotels, err := h.Q.Search(r.Context(), strings.TrimSpace(q.Get("name")), strings.TrimSpace(q.Get("city")))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", domain.StatusOf(err).Message())
		return
	}
	writeJSON(w, map[string]any{"hotels": toHotelViews(hotels), "error": errorMessage(r)})
}

func (h *Handlers) reviews(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	n := 0
	if ns := r.URL.Query().Get("n"); ns != "" {
		v, err := strconv.Atoi(ns)
		if err != nil || v < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid n", "n must be a non-negative integer")
			return
		}
		n = v
	}
	if _, err := h.Q.HotelInfo(r.Context(), id); err != nil {
		fail(w, r, "/hotelSearch", nil, err)
		return
	}
	out, err := h.Q.Reviews(r.Context(), id, n)
	if err != nil {
		fail(w, r, "/hotelInfo", hotelQuery(id), err)
		return
	}
	writeTagged(w, r, map[string]any{"hotelId": id, "reviews": toReviewViews(out)})
}

// reviewForm reads the review fields; a rating that is not a number is InvalidRating.
func reviewForm(r *http.Request) (app.ReviewInput, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("rating")), 64)
	if err != nil {
		return app.ReviewInput{}, domain.Fail(domain.InvalidRating, err)
	}
	rec := strings.ToLower(r.FormValue("recommended"))
	return app.ReviewInput{
		Rating:      rating,
		Recommended: rec == "on" || rec == "true" || rec == "yes",
		Title:       r.FormValue("title"),
		Text:        r.FormValue("text"),
	}, nil
}

func (h *Handlers) addReview(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	in, err := reviewForm(r)
	if err == nil {
		_, err = h.Reviews.Add(r.Context(), id, CurrentUser(r), in)
	}
	if err != nil {
		fail(w, r, "/hotelInfo", hotelQuery(id), err)
		return
	}
	redirect(w, r, "/hotelInfo", hotelQuery(id))
}

// editReview updates or, with action=delete, removes a review of the current user.
func (h *Handlers) editReview(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	reviewID := strings.TrimSpace(r.FormValue("reviewId"))
	user := CurrentUser(r)

	var err error
	if r.FormValue("action") == "delete" {
		err = h.Reviews.Remove(r.Context(), reviewID, user)
	} else {
		var in app.ReviewInput
		if in, err = reviewForm(r); err == nil {
			_, err = h.Reviews.Edit(r.Context(), reviewID, user, in)
		}
	}
	if err != nil {
		fail(w, r, "/hotelInfo", hotelQuery(id), err)
		return
	}
	redirect(w, r, "/hotelInfo", hotelQuery(id))
}

func (h *Handlers) attractions(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	radius := float64(defaultRadiusMiles)
	if rs := r.URL.Query().Get("radius"); rs != "" {
		v, err := strconv.ParseFloat(rs, 64)
		if err != nil || v <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid radius", "radius must be a positive number of miles")
			return
		}
		radius = v
	}
	list, err := h.Fetch.FetchAttractions(r.Context(), id, radius)
	if err != nil {
		fail(w, r, "/hotelInfo", hotelQuery(id), err)
		return
	}
	if list == nil {
		list = []domain.Attraction{}
	}
	writeJSON(w, map[string]any{"hotelId": id, "radius": radius, "attractions": list})
}

func (h *Handlers) descriptions(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	d, err := h.Fetch.FetchDescriptions(r.Context(), id)
	if err != nil {
		fail(w, r, "/hotelInfo", hotelQuery(id), err)
		return
	}
	if !d.Empty() {
		if err := h.Hotels.SetDescriptions(r.Context(), id, d); err != nil {
			log.Warn().Err(err).Str("hotel", id).Msg("store descriptions failed")
		}
		h.Q.Invalidate(r.Context(), id)
	}
	writeJSON(w, map[string]string{"hotelId": id, "area": d.Area, "property": d.Property})
}

// expedia records the visit and sends the browser on to the Expedia page.
func (h *Handlers) expedia(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	if _, err := h.Q.HotelInfo(r.Context(), id); err != nil {
		fail(w, r, "/hotelSearch", nil, err)
		return
	}
	link := expediaLink(id)
	if err := h.Visited.Save(r.Context(), CurrentUser(r), link); err != nil && domain.StatusOf(err) != domain.DuplicateLink {
		log.Warn().Err(err).Str("hotel", id).Msg("record visited link failed")
	}
	http.Redirect(w, r, link, http.StatusFound)
}

func (h *Handlers) profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := CurrentUser(r)
	saved, err := h.Saved.ListByUser(ctx, user)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", domain.StatusOf(err).Message())
		return
	}
	visited, err := h.Visited.ListByUser(ctx, user)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", domain.StatusOf(err).Message())
		return
	}
	reviews, err := h.Q.ReviewsByUser(ctx, user)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", domain.StatusOf(err).Message())
		return
	}

	hotels := make([]hotelView, 0, len(saved))
	for _, id := range saved {
		hotel, err := h.Q.HotelInfo(ctx, id)
		if err != nil {
			continue
		}
		hotels = append(hotels, toHotelView(hotel))
	}
	lastHotel := ""
	if s, ok := sessionFrom(r); ok {
		lastHotel = s.attrs["lastHotel"]
	}
	if visited == nil {
		visited = []string{}
	}
	writeJSON(w, map[string]any{
		"user":      user,
		"saved":     hotels,
		"visited":   visited,
		"reviews":   toReviewViews(reviews),
		"lastHotel": lastHotel,
		"error":     errorMessage(r),
	})
}

// profileAction handles the buttons of the profile page.
func (h *Handlers) profileAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := CurrentUser(r)

	var err error
	switch r.FormValue("action") {
	case "removeSaved":
		err = h.Saved.Remove(ctx, user, hotelID(r))
	case "clearSaved":
		err = h.Saved.ClearByUser(ctx, user)
	case "clearVisited":
		err = h.Visited.ClearByUser(ctx, user)
	case "deleteReviews":
		_, err = h.Reviews.RemoveByUser(ctx, user)
	case "deleteAccount":
		if err = h.Auth.Remove(ctx, user, r.FormValue("password")); err == nil {
			h.dropUserData(ctx, user)
			h.logout(w, r)
			return
		}
	default:
		writeProblem(w, http.StatusBadRequest, "Invalid action", "unknown profile action")
		return
	}
	if err != nil {
		fail(w, r, "/profile", nil, err)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusFound)
}

// dropUserData removes what a deleted account leaves behind; failures are only logged.
func (h *Handlers) dropUserData(ctx context.Context, user string) {
	if err := h.Saved.ClearByUser(ctx, user); err != nil {
		log.Warn().Err(err).Str("user", user).Msg("clear saved hotels failed")
	}
	if err := h.Visited.ClearByUser(ctx, user); err != nil {
		log.Warn().Err(err).Str("user", user).Msg("clear visited links failed")
	}
	if _, err := h.Reviews.RemoveByUser(ctx, user); err != nil {
		log.Warn().Err(err).Str("user", user).Msg("remove reviews failed")
	}
	log.Info().Str("user", user).Msg("account removed")
}

func (h *Handlers) addFavourite(w http.ResponseWriter, r *http.Request) {
	id := hotelID(r)
	if _, err := h.Q.HotelInfo(r.Context(), id); err != nil {
		fail(w, r, "/hotelSearch", nil, err)
		return
	}
	if err := h.Saved.Save(r.Context(), CurrentUser(r), id); err != nil {
		fail(w, r, "/hotelInfo", hotelQuery(id), err)
		return
	}
	redirect(w, r, "/hotelInfo", hotelQuery(id))
}
