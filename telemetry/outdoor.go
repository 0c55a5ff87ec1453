package telemetry

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/greenlab/greenhouse-rl/env"
)

// OutdoorServer accepts exterior weather measurements pushed by the IoT
// side and keeps the latest batch for the next simulator run.
type OutdoorServer struct {
	addr   string
	server *http.Server
	logger *zap.Logger

	lock   sync.Mutex
	latest *env.OutdoorState
}

var _ env.OutdoorSource = &OutdoorServer{}

func NewOutdoorServer(addr string, logger *zap.Logger) *OutdoorServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	o := &OutdoorServer{addr: addr, logger: logger}

	router := gin.New()
	router.POST("/measurements", o.handleMeasurements)
	o.server = &http.Server{Addr: addr, Handler: router}
	return o
}

func (o *OutdoorServer) handleMeasurements(c *gin.Context) {
	state := &env.OutdoorState{}
	if err := c.ShouldBindJSON(state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(state.Time) == 0 ||
		len(state.GlobalOut) != len(state.Time) ||
		len(state.TempOut) != len(state.Time) ||
		len(state.RHOut) != len(state.Time) ||
		len(state.CO2Out) != len(state.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "measurement series empty or of unequal length"})
		return
	}
	o.lock.Lock()
	o.latest = state
	o.lock.Unlock()
	o.logger.Debug("outdoor measurements received", zap.Int("samples", len(state.Time)))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start listens in the background until Stop.
func (o *OutdoorServer) Start() error {
	listener, err := net.Listen("tcp", o.addr)
	if err != nil {
		return err
	}
	go func() {
		if err := o.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			o.logger.Error("outdoor server stopped", zap.Error(err))
		}
	}()
	return nil
}

func (o *OutdoorServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return o.server.Shutdown(ctx)
}

// LatestOutdoor returns the most recent measurement batch, if any arrived.
func (o *OutdoorServer) LatestOutdoor() (*env.OutdoorState, bool) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if o.latest == nil {
		return nil, false
	}
	return o.latest, true
}
