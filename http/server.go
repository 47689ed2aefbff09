package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"github.com/emersonlsg10/flask/crud"
	"github.com/emersonlsg10/flask/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the database services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ps     domain.PostService
	ls     domain.LoveService
	cs     domain.CommentService
	os     domain.OAuthService
	github *oauth2.Config
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(isProd bool, csrfKey string, github *oauth2.Config, services *crud.Services) *Server {
	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		ps:     services.Post,
		ls:     services.Love,
		cs:     services.Comment,
		os:     services.OAuth,
		github: github,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the blog.
	s.registerPostRoutes(s.router)
	s.registerLoveRoutes(s.router)
	s.registerCommentRoutes(s.router)

	// Set up middleware that needs to run on every request. The CSRF
	// protection middleware issues a token on GET requests and verifies it
	// on writes.
	csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.checkUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe("localhost:"+strconv.Itoa(port), s.router))
}
