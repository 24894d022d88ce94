// Package fakenina is an in-process stand-in for the Advanced API used by
// integration tests: the full envelope REST surface plus the four event
// socket channels, with fault injection for resilience scenarios.
package fakenina

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// envelope mirrors the wire shape the real server wraps every payload in.
type envelope struct {
	Success    bool   `json:"Success"`
	Error      string `json:"Error"`
	StatusCode int    `json:"StatusCode"`
	Response   any    `json:"Response"`
	Type       string `json:"Type"`
}

// Server is the fake instance. All state is mutex-guarded; one server may
// be shared by concurrent test clients.
type Server struct {
	httpServer *httptest.Server
	upgrader   websocket.Upgrader

	mu              sync.Mutex
	failNext        int
	cameraConnected bool
	mountParked     bool
	sequenceRunning bool
	captures        int
	loadedSequence  any
	conns           map[string][]*websocket.Conn
}

// New starts a fake server. Callers must Close it.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[string][]*websocket.Conn),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/v2/api")
	api.Use(s.faultInjection)
	{
		api.GET("/version", func(c *gin.Context) { s.ok(c, "2.2.2.0") })
		api.GET("/application/switch-tab", func(c *gin.Context) { s.ok(c, "switched") })

		api.GET("/equipment/camera/info", s.cameraInfo)
		api.GET("/equipment/camera/connect", s.cameraConnect)
		api.GET("/equipment/camera/disconnect", s.cameraDisconnect)
		api.GET("/equipment/camera/capture", s.cameraCapture)
		api.GET("/equipment/camera/abort-exposure", func(c *gin.Context) { s.ok(c, "aborted") })

		api.GET("/equipment/mount/info", s.mountInfo)
		api.GET("/equipment/mount/park", s.mountPark)
		api.GET("/equipment/mount/unpark", s.mountUnpark)
		api.GET("/equipment/mount/slew", func(c *gin.Context) { s.ok(c, "slewing") })

		api.GET("/sequence/start", s.sequenceStart)
		api.GET("/sequence/stop", s.sequenceStop)
		api.POST("/sequence/load", s.sequenceLoad)

		api.GET("/image/thumbnail", func(c *gin.Context) {
			c.Data(http.StatusOK, "image/jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0})
		})
	}

	for _, channel := range []string{"/socket", "/mount", "/tppa", "/filterwheel"} {
		engine.GET("/v2"+channel, s.socketHandler(channel))
	}

	s.httpServer = httptest.NewServer(engine)
	return s
}

// Close shuts the server down and drops every socket connection.
func (s *Server) Close() {
	s.mu.Lock()
	for _, conns := range s.conns {
		for _, conn := range conns {
			_ = conn.Close()
		}
	}
	s.conns = make(map[string][]*websocket.Conn)
	s.mu.Unlock()

	s.httpServer.Close()
}

// BaseURL returns the REST root for client configuration.
func (s *Server) BaseURL() string {
	return s.httpServer.URL + "/v2/api"
}

// SocketURL returns the websocket root for client configuration.
func (s *Server) SocketURL() string {
	return "ws" + strings.TrimPrefix(s.httpServer.URL, "http") + "/v2"
}

// FailNext makes the next n REST requests fail with a 500.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	s.failNext = n
	s.mu.Unlock()
}

// Captures returns how many exposures were requested.
func (s *Server) Captures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captures
}

// LoadedSequence returns the last sequence body accepted by POST.
func (s *Server) LoadedSequence() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedSequence
}

// PushEvent broadcasts a raw frame to every connection on a channel.
func (s *Server) PushEvent(channel string, frame string) {
	s.mu.Lock()
	conns := append([]*websocket.Conn(nil), s.conns[channel]...)
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
	}
}

// DropConnections abruptly closes every connection on a channel.
func (s *Server) DropConnections(channel string) {
	s.mu.Lock()
	conns := s.conns[channel]
	s.conns[channel] = nil
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (s *Server) faultInjection(c *gin.Context) {
	s.mu.Lock()
	inject := s.failNext > 0
	if inject {
		s.failNext--
	}
	s.mu.Unlock()

	if inject {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Next()
}

func (s *Server) ok(c *gin.Context, response any) {
	c.JSON(http.StatusOK, envelope{
		Success:    true,
		StatusCode: http.StatusOK,
		Response:   response,
		Type:       "API",
	})
}

func (s *Server) fail(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, envelope{
		Success:    false,
		Error:      msg,
		StatusCode: http.StatusOK,
		Type:       "API",
	})
}

func (s *Server) cameraInfo(c *gin.Context) {
	s.mu.Lock()
	connected := s.cameraConnected
	s.mu.Unlock()

	s.ok(c, gin.H{
		"Connected":   connected,
		"Name":        "Simulated Camera",
		"Temperature": -10.0,
		"Gain":        100,
	})
}

func (s *Server) cameraConnect(c *gin.Context) {
	s.mu.Lock()
	s.cameraConnected = true
	s.mu.Unlock()
	s.ok(c, "connected")
}

func (s *Server) cameraDisconnect(c *gin.Context) {
	s.mu.Lock()
	s.cameraConnected = false
	s.mu.Unlock()
	s.ok(c, "disconnected")
}

func (s *Server) cameraCapture(c *gin.Context) {
	s.mu.Lock()
	connected := s.cameraConnected
	if connected {
		s.captures++
	}
	s.mu.Unlock()

	if !connected {
		s.fail(c, "camera not connected")
		return
	}
	s.ok(c, "capture started")
}

func (s *Server) mountInfo(c *gin.Context) {
	s.mu.Lock()
	parked := s.mountParked
	s.mu.Unlock()

	s.ok(c, gin.H{
		"Connected": true,
		"Name":      "Simulated Mount",
		"AtPark":    parked,
	})
}

func (s *Server) mountPark(c *gin.Context) {
	s.mu.Lock()
	s.mountParked = true
	s.mu.Unlock()
	s.ok(c, "parked")
	s.PushEvent("/mount", `{"Event":"MOUNT-PARKED"}`)
}

func (s *Server) mountUnpark(c *gin.Context) {
	s.mu.Lock()
	s.mountParked = false
	s.mu.Unlock()
	s.ok(c, "unparked")
	s.PushEvent("/mount", `{"Event":"MOUNT-UNPARKED"}`)
}

func (s *Server) sequenceStart(c *gin.Context) {
	s.mu.Lock()
	s.sequenceRunning = true
	s.mu.Unlock()
	s.ok(c, "sequence started")
	s.PushEvent("/socket", `{"Event":"SEQUENCE-STARTING"}`)
}

func (s *Server) sequenceStop(c *gin.Context) {
	s.mu.Lock()
	running := s.sequenceRunning
	s.sequenceRunning = false
	s.mu.Unlock()

	if !running {
		s.fail(c, "no sequence running")
		return
	}
	s.ok(c, "sequence stopped")
	s.PushEvent("/socket", `{"Event":"SEQUENCE-FINISHED"}`)
}

func (s *Server) sequenceLoad(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, "malformed sequence")
		return
	}
	s.mu.Lock()
	s.loadedSequence = body
	s.mu.Unlock()
	s.ok(c, "sequence loaded")
}

func (s *Server) socketHandler(channel string) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns[channel] = append(s.conns[channel], conn)
		s.mu.Unlock()

		// Drain inbound frames so client pings and commands are serviced.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
