package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/glizzus/themedeck"
	"github.com/glizzus/themedeck/deck"
	"github.com/glizzus/themedeck/theme"
	"golang.org/x/sync/errgroup"
)

var (
	//go:embed tmpl/*.html
	tmplFS embed.FS

	indexTmpl *template.Template
)

type Server struct {
	hs     *http.Server
	db     *themedeck.DB
	logger *log.Logger
}

func init() {
	indexTmpl = template.Must(template.ParseFS(tmplFS, "tmpl/index.html"))
}

func NewServer(db *themedeck.DB, port string) *Server {
	srv := &Server{
		db:     db,
		logger: log.Default(),
	}

	srv.hs = &http.Server{
		Addr:    net.JoinHostPort("0.0.0.0", port),
		Handler: srv.serveHandler(),
	}

	return srv
}

func (s *Server) Start() error {
	return s.hs.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

func (s *Server) serveHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /deck/{id}", s.serveDeck())
	mux.Handle("GET /", s.serveRoot())

	return mux
}

type swatch struct {
	Name  string
	Color theme.Hex
}

type themeView struct {
	Id         int
	Prompt     string
	Generator  string
	Model      string
	CreatedAt  string
	Background theme.Hex
	Swatches   []swatch
	HeaderFont string
	BodyFont   string
}

func viewFromRecord(rec *themedeck.ThemeRecord) (themeView, error) {
	doc, err := theme.Parse([]byte(rec.ThemeJSON))
	if err != nil {
		return themeView{}, err
	}

	c := doc.Theme.Colors
	return themeView{
		Id:         rec.Id,
		Prompt:     rec.Prompt,
		Generator:  rec.Generator,
		Model:      rec.Model,
		CreatedAt:  rec.CreatedAt.Format(time.DateTime),
		Background: doc.Background.Color,
		Swatches: []swatch{
			{"dark", c.Dark.Color},
			{"light", c.Light.Color},
			{"accent1", c.Accent1.Color},
			{"accent2", c.Accent2.Color},
			{"accent3", c.Accent3.Color},
			{"accent4", c.Accent4.Color},
			{"accent5", c.Accent5.Color},
			{"accent6", c.Accent6.Color},
			{"hyperlink", c.Hyperlink.Color},
			{"followed hyperlink", c.FollowedHyperlink.Color},
		},
		HeaderFont: doc.Theme.Fonts.Header.Family,
		BodyFont:   doc.Theme.Fonts.Body.Family,
	}, nil
}

func (s *Server) serveRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recs, err := s.db.RecentThemes(req.Context(), 20)
		if err != nil {
			s.logger.Printf("RecentThemes error - %s\n", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		page := struct {
			Themes []themeView
		}{}
		for _, rec := range recs {
			view, err := viewFromRecord(rec)
			if err != nil {
				s.logger.Printf("skipping theme %d - %s\n", rec.Id, err)
				continue
			}
			page.Themes = append(page.Themes, view)
		}

		indexTmpl.Execute(w, page)
	}
}

func (s *Server) serveDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ids := req.PathValue("id")
		id, err := strconv.Atoi(ids)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		rec, err := s.db.GetTheme(req.Context(), id)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		doc, err := theme.Parse([]byte(rec.ThemeJSON))
		if err != nil {
			s.logger.Printf("theme %d does not parse - %s\n", id, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		base, err := deck.New(deck.PlaceholderTitle)
		if err != nil {
			s.logger.Printf("deck build error - %s\n", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		pptx, softErrs, err := deck.ApplyTheme(base, doc)
		if err != nil {
			s.logger.Printf("deck theme error - %s\n", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		for _, e := range softErrs {
			s.logger.Printf("deck %d - %s\n", id, e)
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=theme-%d.pptx", id))
		w.Write(pptx)
	}
}

func runServe(ctx context.Context, db *themedeck.DB, port string) error {
	srv := NewServer(db, port)
	fmt.Printf("Serving theme gallery on :%s\n", port)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := srv.Start()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	return g.Wait()
}
