// Package server は再生セッションの譜面とリソースをHTTPで公開します
package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/shiroemons/go-webbms/internal/player/interfaces"
	"github.com/shiroemons/go-webbms/internal/player/models"
	"github.com/shiroemons/go-webbms/internal/player/session"
)

const shutdownTimeout = 5 * time.Second

// Server はセッションのHTTPインターフェースです
type Server struct {
	sess    *session.Session
	logger  interfaces.Logger
	handler http.Handler
}

// New は新しいServerを作成します
func New(sess *session.Session, logger interfaces.Logger) *Server {
	s := &Server{sess: sess, logger: logger}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/chart", s.handleChart).Methods(http.MethodGet)
	router.HandleFunc("/entries", s.handleEntries).Methods(http.MethodGet)
	router.HandleFunc("/sounds", s.handleSounds).Methods(http.MethodGet)
	router.HandleFunc("/sounds/{id}", s.handleSound).Methods(http.MethodGet)
	router.HandleFunc("/images", s.handleImages).Methods(http.MethodGet)
	router.HandleFunc("/images/{id}", s.handleImage).Methods(http.MethodGet)

	// ブラウザ側のプレイヤーから直接取得できるようにする
	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
	}).Handler(router)

	return s
}

// Handler はルーティング済みのハンドラを返します
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe は ctx がキャンセルされるまで addr で待ち受けます
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Printf("[%s] %s で待ち受けています\n", s.sess.ID(), addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.sess.Info())
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.sess.Archive().Entries()
	res := make([]models.EntryInfo, 0, len(entries))
	for _, e := range entries {
		res = append(res, models.EntryInfo{Name: e.Name, Size: e.Length})
	}
	s.writeJSON(w, res)
}

func (s *Server) handleSounds(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.sess.SoundMap())
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	name, ok := s.sess.ResolveSound(id)
	if !ok {
		http.Error(w, "sound "+id+" not found", http.StatusNotFound)
		return
	}
	s.writeEntry(w, name)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.sess.ImageMap())
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	name, ok := s.sess.ResolveImage(id)
	if !ok {
		http.Error(w, "image "+id+" not found", http.StatusNotFound)
		return
	}
	s.writeEntry(w, name)
}

// writeEntry はアーカイブのエントリをそのままレスポンスに書き込みます
func (s *Server) writeEntry(w http.ResponseWriter, name string) {
	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if err := s.sess.Archive().Extract(name, w); err != nil {
		s.logger.Printf("[%s] %s の送信に失敗しました: %v\n", s.sess.ID(), name, err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("[%s] レスポンスの書き込みに失敗しました: %v\n", s.sess.ID(), err)
	}
}
