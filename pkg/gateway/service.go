package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ragbot/pkg/bus"
	"ragbot/pkg/channel"
	"ragbot/pkg/config"
	"ragbot/pkg/dispatch"
	"ragbot/pkg/menu"
	"ragbot/pkg/ragclient"
	"ragbot/pkg/state"
)

const (
	defaultHealthHost = "0.0.0.0"
	defaultHealthPort = 18790

	backendProbeInterval = 30 * time.Second
	backendProbeTimeout  = 5 * time.Second
)

// Service wires configuration, the RAG client, the dispatcher and router,
// and the channel adapters together, and serves health/status endpoints.
type Service struct {
	cfg        *config.Config
	log        *slog.Logger
	rag        *ragclient.Client
	dispatcher *dispatch.Dispatcher
	router     *dispatch.Router
	channels   []channel.Adapter
	events     *bus.MessageBus
	probe      *http.Client

	mu              sync.RWMutex
	startedAt       time.Time
	backendLastOKAt time.Time
	backendLastErr  string
	channelStates   map[string]channelState
	counters        map[string]int64
}

type channelState struct {
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

type statusResponse struct {
	Status          string                  `json:"status"`
	UptimeSeconds   int64                   `json:"uptime_seconds"`
	BackendLastOKAt string                  `json:"backend_last_ok_at,omitempty"`
	BackendLastErr  string                  `json:"backend_last_error,omitempty"`
	Channels        map[string]channelState `json:"channels"`
	Counters        map[string]int64        `json:"counters,omitempty"`
}

func NewService(cfg *config.Config, adapters []channel.Adapter, log *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if len(adapters) == 0 {
		return nil, errors.New("at least one channel adapter is required")
	}
	if log == nil {
		log = slog.Default()
	}

	rag, err := ragclient.New(cfg.RAG, log)
	if err != nil {
		return nil, fmt.Errorf("initialize rag client: %w", err)
	}

	graph, err := menu.NewDefaultGraph()
	if err != nil {
		return nil, fmt.Errorf("build menu graph: %w", err)
	}

	store := state.NewStore()

	router, err := dispatch.NewRouter(graph, store, log)
	if err != nil {
		return nil, fmt.Errorf("build callback router: %w", err)
	}

	// Typing indicators go through whichever adapter can emit them.
	var notifier channel.Notifier = channel.NoopNotifier{}
	for _, adapter := range adapters {
		if n, ok := adapter.(channel.Notifier); ok {
			notifier = n
			break
		}
	}

	channelStates := make(map[string]channelState, len(adapters))
	for _, adapter := range adapters {
		channelStates[adapter.Name()] = channelState{}
	}

	return &Service{
		cfg:           cfg,
		log:           log.With("component", "gateway.service"),
		rag:           rag,
		dispatcher:    dispatch.NewDispatcher(rag, store, notifier, log),
		router:        router,
		channels:      adapters,
		events:        bus.NewMessageBus(),
		probe:         &http.Client{Timeout: backendProbeTimeout},
		channelStates: channelStates,
		counters:      make(map[string]int64),
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	s.startedAt = time.Now().UTC()
	s.mu.Unlock()

	defer s.events.Close()

	if err := s.checkBackend(ctx); err != nil {
		s.log.Warn("RAG backend unreachable at startup", "error", err)
	}

	// Subscribe before any adapter can publish so no event is missed.
	events, unsubscribe := s.events.SubscribeEvents(ctx, 0)
	go s.consumeEvents(events, unsubscribe)

	serverErrors := make(chan error, 1)
	go s.runHealthServer(ctx, serverErrors)

	ticker := time.NewTicker(backendProbeInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = s.checkBackend(ctx)
			}
		}
	}()

	errCh := make(chan error, len(s.channels))
	for _, adapter := range s.channels {
		adapter := adapter
		s.setChannelState(adapter.Name(), channelState{Running: true})

		go func() {
			err := adapter.Run(ctx, s.handlers())
			s.setChannelState(adapter.Name(), channelState{Running: false, Error: errorString(err)})
			if err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("run %s channel: %w", adapter.Name(), err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErrors:
		return err
	case err := <-errCh:
		return err
	}
}

func (s *Service) handlers() channel.Handlers {
	return channel.Handlers{
		Message:  s.handleMessage,
		Callback: s.handleCallback,
		Command:  s.handleCommand,
	}
}

func (s *Service) handleMessage(ctx context.Context, inbound bus.InboundMessage) (bus.OutboundMessage, error) {
	kind := bus.Classify(inbound)
	s.events.PublishEvent(ctx, bus.Event{
		Type: bus.EventMessageReceived, Channel: inbound.Channel, ChatID: inbound.ChatID, Kind: string(kind),
	})

	outbound, err := s.dispatcher.Handle(ctx, inbound)
	if err != nil {
		s.events.PublishEvent(ctx, bus.Event{
			Type: bus.EventMessageFailed, Channel: inbound.Channel, ChatID: inbound.ChatID, Kind: string(kind), Error: err.Error(),
		})
		return outbound, err
	}

	s.events.PublishEvent(ctx, bus.Event{
		Type: bus.EventMessageProcessed, Channel: inbound.Channel, ChatID: inbound.ChatID, Kind: string(kind),
	})
	return outbound, nil
}

func (s *Service) handleCallback(ctx context.Context, callback bus.CallbackMessage) (bus.OutboundMessage, error) {
	s.events.PublishEvent(ctx, bus.Event{
		Type: bus.EventCallbackReceived, Channel: callback.Channel, ChatID: callback.ChatID, Kind: callback.Action,
	})

	outbound, err := s.router.HandleCallback(ctx, callback)
	if err != nil {
		s.events.PublishEvent(ctx, bus.Event{
			Type: bus.EventCallbackFailed, Channel: callback.Channel, ChatID: callback.ChatID, Kind: callback.Action, Error: err.Error(),
		})
		return outbound, err
	}
	return outbound, nil
}

func (s *Service) handleCommand(ctx context.Context, command, senderID, chatID string) (bus.OutboundMessage, error) {
	s.events.PublishEvent(ctx, bus.Event{
		Type: bus.EventMessageReceived, ChatID: chatID, Kind: "command:" + command,
	})
	return s.router.HandleCommand(ctx, command, senderID, chatID)
}

// consumeEvents keeps per-type counters for the status endpoint.
func (s *Service) consumeEvents(events <-chan bus.Event, unsubscribe func()) {
	defer unsubscribe()

	for event := range events {
		s.mu.Lock()
		s.counters[string(event.Type)]++
		s.mu.Unlock()
	}
}

func (s *Service) runHealthServer(ctx context.Context, errCh chan<- error) {
	host := strings.TrimSpace(s.cfg.Gateway.Host)
	if host == "" {
		host = defaultHealthHost
	}

	port := s.cfg.Gateway.Port
	if port <= 0 {
		port = defaultHealthPort
	}

	addr := host + ":" + strconv.Itoa(port)
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.log.Info("Gateway status server started", "address", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		errCh <- fmt.Errorf("start status server: %w", err)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondStatus(w, http.StatusOK, "ok")
}

func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	statusCode := http.StatusOK
	status := "ready"
	if !s.isReady() {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	s.respondStatus(w, statusCode, status)
}

func (s *Service) respondStatus(w http.ResponseWriter, statusCode int, status string) {
	payload := s.currentStatus(status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Failed to write status response", "error", err)
	}
}

func (s *Service) currentStatus(status string) statusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uptime := int64(0)
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt).Seconds())
	}

	channels := make(map[string]channelState, len(s.channelStates))
	for name, state := range s.channelStates {
		channels[name] = state
	}

	counters := make(map[string]int64, len(s.counters))
	for name, count := range s.counters {
		counters[name] = count
	}

	backendLastOK := ""
	if !s.backendLastOKAt.IsZero() {
		backendLastOK = s.backendLastOKAt.Format(time.RFC3339)
	}

	return statusResponse{
		Status:          status,
		UptimeSeconds:   uptime,
		BackendLastOKAt: backendLastOK,
		BackendLastErr:  s.backendLastErr,
		Channels:        channels,
		Counters:        counters,
	}
}

func (s *Service) isReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.channelStates) == 0 {
		return false
	}

	anyRunning := false
	for _, state := range s.channelStates {
		if state.Running {
			anyRunning = true
			break
		}
	}

	if !anyRunning {
		return false
	}

	if s.backendLastOKAt.IsZero() {
		return false
	}

	if s.backendLastErr != "" {
		return false
	}

	return true
}

// checkBackend probes the RAG base URL for reachability. Any HTTP response
// counts: the probe checks transport, not endpoint semantics.
func (s *Service) checkBackend(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.rag.BaseURL(), nil)
	if err != nil {
		return fmt.Errorf("build backend probe: %w", err)
	}

	resp, err := s.probe.Do(req)
	if err != nil {
		s.mu.Lock()
		s.backendLastErr = err.Error()
		s.mu.Unlock()
		return fmt.Errorf("backend probe failed: %w", err)
	}
	resp.Body.Close()

	s.mu.Lock()
	s.backendLastErr = ""
	s.backendLastOKAt = time.Now().UTC()
	s.mu.Unlock()

	return nil
}

func (s *Service) setChannelState(name string, state channelState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelStates[name] = state
}

func errorString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
