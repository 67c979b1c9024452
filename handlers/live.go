package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"moviez/internal/listview"
	"moviez/internal/metrics"
	"moviez/models"
	metadatapkg "moviez/services/metadata"
	"moviez/utils"
	"moviez/web"
)

const (
	livePingPeriod     = 30 * time.Second
	livePongWait       = 60 * time.Second
	liveWriteWait      = 10 * time.Second
	liveMaxMessageSize = 4 << 10
	liveSendBuffer     = 64

	searchDropdownSize = 5
)

// Views a live session can drive.
const (
	viewSearch   = "search"
	viewGenres   = "genres"
	viewCategory = "category"
)

// Client actions.
const (
	actionMount       = "mount"
	actionSearch      = "search"
	actionPage        = "page"
	actionToggleGenre = "toggleGenre"
)

type liveRequest struct {
	Action   string `json:"action"`
	View     string `json:"view"`
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
	Page     int    `json:"page,omitempty"`
	GenreID  int    `json:"genreId,omitempty"`
	Text     string `json:"text,omitempty"`
}

// liveMessage is sent to the browser. Type is "result", "navigate" or
// "error".
type liveMessage struct {
	Type       string `json:"type"`
	View       string `json:"view,omitempty"`
	Status     string `json:"status,omitempty"`
	HTML       string `json:"html,omitempty"`
	Pagination string `json:"pagination,omitempty"`
	Page       int    `json:"page,omitempty"`
	TotalPages int    `json:"totalPages,omitempty"`
	GenreIDs   []int  `json:"genreIds,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Query      string `json:"query,omitempty"`
	Message    string `json:"message,omitempty"`
}

// liveEvent is queued by controller callbacks and turned into a liveMessage
// by the writer. query is the URL mirror of the view when the event fired.
type liveEvent struct {
	kind    string
	view    string
	mode    string
	query   string
	result  movieResult
	message string
}

// LiveHandler serves the live list views over a websocket: search as you
// type, genre toggles and page changes, each answered with rendered list
// fragments and a URL write-back.
type LiveHandler struct {
	Catalog     CatalogService
	Templates   *web.Templates
	Recorder    metrics.Recorder
	SearchDelay time.Duration

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*liveSession
}

func NewLiveHandler(catalog CatalogService, templates *web.Templates, rec metrics.Recorder) *LiveHandler {
	if rec == nil {
		rec = metrics.Discard
	}
	return &LiveHandler{
		Catalog:     catalog,
		Templates:   templates,
		Recorder:    rec,
		SearchDelay: listview.SearchDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     utils.CheckOrigin,
		},
		sessions: make(map[string]*liveSession),
	}
}

// ServeHTTP upgrades the connection and runs the session until the client
// goes away.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	s := &liveSession{
		id:     uuid.NewString(),
		h:      h,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan liveEvent, liveSendBuffer),
		views:  make(map[string]*listview.Controller[models.MovieSummary]),
		mirror: make(map[string]string),
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.Recorder.RecordLiveSession(1)
	log.Printf("[live] session=%s opened remote=%s", s.id, r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.sessions, s.id)
		h.mu.Unlock()
		h.Recorder.RecordLiveSession(-1)
		log.Printf("[live] session=%s closed", s.id)
	}()

	s.run()
}

// Close ends every open session.
func (h *LiveHandler) Close() {
	h.mu.Lock()
	sessions := make([]*liveSession, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()
	for _, s := range sessions {
		s.cancel()
		s.conn.Close()
	}
}

// Sessions returns the number of open sessions.
func (h *LiveHandler) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

type liveSession struct {
	id     string
	h      *LiveHandler
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	events chan liveEvent
	tasks  conc.WaitGroup

	// mu guards views and mirror. It is never held while calling into a
	// controller.
	mu     sync.Mutex
	views  map[string]*listview.Controller[models.MovieSummary]
	mirror map[string]string
}

func (s *liveSession) run() {
	var writer conc.WaitGroup
	writer.Go(s.writePump)

	s.readPump()

	s.cancel()
	s.mu.Lock()
	views := make([]*listview.Controller[models.MovieSummary], 0, len(s.views))
	for _, ctrl := range s.views {
		views = append(views, ctrl)
	}
	s.mu.Unlock()
	for _, ctrl := range views {
		ctrl.Close()
	}
	s.tasks.Wait()
	writer.Wait()
	s.conn.Close()
}

func (s *liveSession) readPump() {
	s.conn.SetReadLimit(liveMaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(livePongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[live] session=%s read error: %v", s.id, err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(livePongWait))

		var req liveRequest
		if err := json.Unmarshal(data, &req); err != nil {
			s.emitError("", "malformed message")
			continue
		}
		s.handle(req)
	}
}

// handle dispatches one client action. Every action commits its state and
// URL write-back here, in message order. Mount also loads inline; page and
// genre loads run in the background, where a newer commit supersedes them.
func (s *liveSession) handle(req liveRequest) {
	switch req.Action {
	case actionMount:
		ctrl, ok := s.mount(req)
		if !ok {
			return
		}
		ctrl.Mount(s.ctx, req.Query)
	case actionSearch:
		s.searchView().SetSearchText(s.ctx, req.Text)
	case actionPage:
		ctrl := s.view(req.View)
		if ctrl == nil {
			s.emitError(req.View, "view not mounted")
			return
		}
		pending := ctrl.BeginPage(s.ctx, req.Page)
		s.tasks.Go(func() { pending.Run() })
	case actionToggleGenre:
		ctrl := s.view(req.View)
		if ctrl == nil || req.View != viewGenres {
			s.emitError(req.View, "genre filter not mounted")
			return
		}
		pending := ctrl.BeginToggleGenre(s.ctx, req.GenreID)
		s.tasks.Go(func() { pending.Run() })
	default:
		s.emitError(req.View, "unknown action")
	}
}

// mount creates a fresh controller for the requested view, replacing any
// earlier one.
func (s *liveSession) mount(req liveRequest) (*listview.Controller[models.MovieSummary], bool) {
	var (
		load movieLoader
		opts []listview.Option
	)
	switch req.View {
	case viewGenres:
		load = discoverLoader(s.h.Catalog)
	case viewCategory:
		if !metadatapkg.IsCategory(req.Category) {
			s.emitError(req.View, "unknown movie category")
			return nil, false
		}
		load = categoryLoader(s.h.Catalog, req.Category)
	case viewSearch:
		load = searchLoader(s.h.Catalog)
		opts = append(opts, listview.WithLimit(searchDropdownSize))
	default:
		s.emitError(req.View, "unknown view")
		return nil, false
	}

	ctrl := s.newController(req.View, load, opts...)
	s.mu.Lock()
	prev := s.views[req.View]
	s.views[req.View] = ctrl
	s.mirror[req.View] = req.Query
	s.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return ctrl, true
}

func (s *liveSession) searchView() *listview.Controller[models.MovieSummary] {
	s.mu.Lock()
	ctrl := s.views[viewSearch]
	s.mu.Unlock()
	if ctrl != nil {
		return ctrl
	}
	ctrl, _ = s.mount(liveRequest{View: viewSearch})
	return ctrl
}

func (s *liveSession) view(name string) *listview.Controller[models.MovieSummary] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views[name]
}

func (s *liveSession) newController(view string, load movieLoader, opts ...listview.Option) *listview.Controller[models.MovieSummary] {
	opts = append(opts,
		listview.WithRecorder(s.h.Recorder),
		listview.WithSearchDelay(s.h.SearchDelay),
	)
	nav := listview.NavigatorFuncs{
		PushFunc:    func(q string) { s.navigate(view, "push", q) },
		ReplaceFunc: func(q string) { s.navigate(view, "replace", q) },
	}
	ctrl := listview.NewController(view, load, nav, opts...)
	ctrl.OnChange(func(r movieResult) {
		// A replaced controller still reports its cancelled fetch.
		if s.view(view) != ctrl {
			return
		}
		s.emit(liveEvent{kind: "result", view: view, query: s.mirrorOf(view), result: r})
	})
	return ctrl
}

func (s *liveSession) navigate(view, mode, query string) {
	s.mu.Lock()
	s.mirror[view] = query
	s.mu.Unlock()
	s.emit(liveEvent{kind: "navigate", view: view, mode: mode, query: query})
}

func (s *liveSession) mirrorOf(view string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror[view]
}

func (s *liveSession) emitError(view, message string) {
	s.emit(liveEvent{kind: "error", view: view, message: message})
}

// emit queues an event for the writer. It blocks while the queue is full so
// events are never reordered or dropped, and gives up once the session ends.
func (s *liveSession) emit(ev liveEvent) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

func (s *liveSession) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case ev := <-s.events:
			msg := s.h.message(ev)
			s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				log.Printf("[live] session=%s write error: %v", s.id, err)
				s.cancel()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}
		}
	}
}

// message renders an event. It only reads the event itself so it never
// waits on a controller.
func (h *LiveHandler) message(ev liveEvent) liveMessage {
	switch ev.kind {
	case "navigate":
		return liveMessage{Type: "navigate", View: ev.view, Mode: ev.mode, Query: ev.query}
	case "error":
		return liveMessage{Type: "error", View: ev.view, Message: ev.message}
	}

	state := listview.Decode(ev.query)
	msg := liveMessage{
		Type:     "result",
		View:     ev.view,
		Status:   ev.result.Status.String(),
		Page:     state.Page,
		GenreIDs: state.GenreIDs,
		Query:    ev.query,
		Message:  ev.result.Message,
	}
	if ev.result.IsLoading() || ev.result.IsIdle() {
		return msg
	}
	if ev.result.IsSuccess() {
		msg.TotalPages = ev.result.TotalPages
	}

	partial := "movieList"
	if ev.view == viewSearch {
		partial = "searchResults"
	}
	var buf bytes.Buffer
	if err := h.Templates.RenderPartial(&buf, partial, ev.result); err != nil {
		log.Printf("[live] render %s: %v", partial, err)
		return liveMessage{Type: "error", View: ev.view, Message: listview.DefaultFailureMessage}
	}
	msg.HTML = buf.String()

	if ev.view != viewSearch {
		pages := buildPagination(state.Page, msg.TotalPages, func(n int) string {
			return "?" + listview.Encode(state.WithPage(n), ev.query)
		})
		buf.Reset()
		if err := h.Templates.RenderPartial(&buf, "pagination", pages); err != nil {
			log.Printf("[live] render pagination: %v", err)
		} else {
			msg.Pagination = buf.String()
		}
	}
	return msg
}
