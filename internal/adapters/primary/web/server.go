package web

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"credit-scoring-api/internal/client"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Predictor is the API client used by the front end.
type Predictor interface {
	Predict(ctx context.Context, clientID int64) (*client.Result, error)
	BaseURL() string
}

type page struct {
	Input     string
	Error     string
	Result    *client.Result
	Submitted bool
	URL       string
}

type Server struct {
	api Predictor
}

func New(api Predictor) *Server {
	return &Server{api: api}
}

// Router builds the front-end engine. Middleware is applied by the caller.
func (s *Server) Router(mw ...gin.HandlerFunc) *gin.Engine {
	tmpl := template.Must(template.ParseFS(templatesFS, "templates/*.html"))

	r := gin.New()
	r.Use(mw...)
	r.SetHTMLTemplate(tmpl)
	r.GET("/", s.Index)
	r.POST("/", s.Submit)
	return r
}

func (s *Server) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", page{})
}

func (s *Server) Submit(c *gin.Context) {
	input := c.PostForm("client_id")
	p := page{Input: input}

	id, err := client.ParseClientID(input)
	if err != nil {
		p.Error = err.Error()
		c.HTML(http.StatusOK, "index.html", p)
		return
	}

	p.Submitted = true
	p.URL = s.api.BaseURL() + "/predict"

	result, err := s.api.Predict(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).WithField("client_id", id).Warn("prediction request failed")
		p.Error = err.Error()
		c.HTML(http.StatusOK, "index.html", p)
		return
	}

	p.Result = result
	c.HTML(http.StatusOK, "index.html", p)
}
