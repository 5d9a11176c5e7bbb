package venue

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamConfig - конфигурация websocket-потока цен
type StreamConfig struct {
	URL            string
	InitialDelay   time.Duration // начальная задержка переподключения
	MaxDelay       time.Duration // потолок exponential backoff
	ConnectTimeout time.Duration
	PingInterval   time.Duration
	PongTimeout    time.Duration
}

// DefaultStreamConfig возвращает конфигурацию по умолчанию
func DefaultStreamConfig(url string) StreamConfig {
	return StreamConfig{
		URL:            url,
		InitialDelay:   2 * time.Second,
		MaxDelay:       16 * time.Second,
		ConnectTimeout: 10 * time.Second,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
	}
}

// priceMessage - wire-формат ценового сообщения venue
type priceMessage struct {
	Type      string  `json:"type"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"ts"`
}

// subscribeMessage - wire-формат подписки
type subscribeMessage struct {
	Op      string   `json:"op"` // subscribe, unsubscribe
	Symbols []string `json:"symbols"`
}

// PriceStream - подписочный потребитель ценового потока venue
//
// Заменяет polling: каждое обновление цены доставляется callback'у
// сразу по приходу. При разрыве соединение восстанавливается с
// exponential backoff, подписки переигрываются автоматически.
type PriceStream struct {
	cfg     StreamConfig
	onPrice func(symbol string, price float64)
	log     *zap.Logger

	mu      sync.Mutex
	conn    *websocket.Conn
	symbols map[string]struct{} // активные подписки (для replay после reconnect)

	closeOnce sync.Once
	closed    chan struct{}
}

// NewPriceStream создаёт поток цен
//
// onPrice вызывается из goroutine чтения; callback обязан быть
// быстрым (маршрутизация в шардированные каналы движка).
func NewPriceStream(cfg StreamConfig, onPrice func(symbol string, price float64), log *zap.Logger) *PriceStream {
	return &PriceStream{
		cfg:     cfg,
		onPrice: onPrice,
		log:     log,
		symbols: make(map[string]struct{}),
		closed:  make(chan struct{}),
	}
}

// Run поддерживает соединение до отмены контекста или Close
func (s *PriceStream) Run(ctx context.Context) {
	delay := s.cfg.InitialDelay
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.closed:
			return
		default:
		}

		if err := s.connect(ctx); err != nil {
			s.log.Warn("price stream connect failed",
				zap.String("url", s.cfg.URL),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			case <-s.closed:
				return
			}
			// Exponential backoff до потолка
			if delay *= 2; delay > s.cfg.MaxDelay {
				delay = s.cfg.MaxDelay
			}
			continue
		}
		delay = s.cfg.InitialDelay

		s.readLoop(ctx)
	}
}

// Subscribe подписывает поток на символ
func (s *PriceStream) Subscribe(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[symbol] = struct{}{}
	if s.conn == nil {
		return nil // отправим при подключении
	}
	return s.conn.WriteJSON(subscribeMessage{Op: "subscribe", Symbols: []string{symbol}})
}

// Unsubscribe снимает подписку на символ
func (s *PriceStream) Unsubscribe(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.symbols, symbol)
	if s.conn == nil {
		return nil
	}
	return s.conn.WriteJSON(subscribeMessage{Op: "unsubscribe", Symbols: []string{symbol}})
}

// Close закрывает поток окончательно
func (s *PriceStream) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.mu.Lock()
		if s.conn != nil {
			s.conn.Close()
		}
		s.mu.Unlock()
	})
}

// connect устанавливает соединение и переигрывает подписки
func (s *PriceStream) connect(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, s.cfg.URL, nil)
	if err != nil {
		return err
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PingInterval + s.cfg.PongTimeout))
	})

	s.mu.Lock()
	s.conn = conn
	replay := make([]string, 0, len(s.symbols))
	for sym := range s.symbols {
		replay = append(replay, sym)
	}
	s.mu.Unlock()

	if len(replay) > 0 {
		if err := conn.WriteJSON(subscribeMessage{Op: "subscribe", Symbols: replay}); err != nil {
			conn.Close()
			return err
		}
	}

	s.log.Info("price stream connected",
		zap.String("url", s.cfg.URL),
		zap.Int("symbols", len(replay)),
	)
	return nil
}

// readLoop читает сообщения до разрыва соединения
func (s *PriceStream) readLoop(ctx context.Context) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	pingTicker := time.NewTicker(s.cfg.PingInterval)
	defer pingTicker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn.SetReadDeadline(time.Now().Add(s.cfg.PingInterval + s.cfg.PongTimeout))
			_, data, err := conn.ReadMessage()
			if err != nil {
				s.log.Warn("price stream read error", zap.Error(err))
				return
			}
			var msg priceMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				s.log.Warn("malformed price message skipped", zap.Error(err))
				continue
			}
			if msg.Type != "price" || msg.Symbol == "" || msg.Price <= 0 {
				continue
			}
			s.onPrice(msg.Symbol, msg.Price)
		}
	}()

	for {
		select {
		case <-done:
			s.dropConn(conn)
			return
		case <-ctx.Done():
			s.dropConn(conn)
			return
		case <-s.closed:
			s.dropConn(conn)
			return
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.PongTimeout)); err != nil {
				s.dropConn(conn)
				return
			}
		}
	}
}

// dropConn закрывает соединение и сбрасывает ссылку
func (s *PriceStream) dropConn(conn *websocket.Conn) {
	conn.Close()
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()
}
