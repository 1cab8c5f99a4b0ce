// bookstorm hammers one master's public booking page with concurrent,
// deliberately overlapping requests, then checks in Postgres that no two
// non-canceled appointments for that master overlap. It exists to exercise
// the check-then-act race closure end to end.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/beautyshop/beautyshop-server/internal/db"
)

type StormConfig struct {
	APIBaseURL  string
	Slug        string
	Duration    time.Duration
	Workers     int
	PostgresDSN string
	Day         time.Time
}

func loadConfig() (StormConfig, error) {
	cfg := StormConfig{
		APIBaseURL:  getEnv("API_BASE_URL", "http://127.0.0.1:8080"),
		Slug:        os.Getenv("STORM_SLUG"),
		Duration:    30 * time.Second,
		Workers:     16,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		Day:         time.Now().UTC().AddDate(0, 0, 1).Truncate(24 * time.Hour),
	}

	if cfg.Slug == "" {
		return StormConfig{}, fmt.Errorf("STORM_SLUG is required (target master's booking slug)")
	}

	if v := os.Getenv("STORM_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return StormConfig{}, fmt.Errorf("invalid STORM_DURATION: %w", err)
		}
		cfg.Duration = d
	}
	if v := os.Getenv("STORM_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return StormConfig{}, fmt.Errorf("invalid STORM_WORKERS: %q", v)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type Metrics struct {
	Total     int64
	Booked    int64
	Conflicts int64
	Errors    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (m *Metrics) Record(latency time.Duration, status int) {
	atomic.AddInt64(&m.Total, 1)
	switch {
	case status == http.StatusCreated:
		atomic.AddInt64(&m.Booked, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&m.Conflicts, 1)
	default:
		atomic.AddInt64(&m.Errors, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *Metrics) Stats() (avg, p50, p95, max time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.latencies) == 0 {
		return 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(m.latencies))
	copy(latencies, m.latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	p50 = latencies[len(latencies)*50/100]
	p95idx := len(latencies) * 95 / 100
	if p95idx >= len(latencies) {
		p95idx = len(latencies) - 1
	}
	p95 = latencies[p95idx]
	max = latencies[len(latencies)-1]
	return avg, p50, p95, max
}

type bookRequest struct {
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("storming %s/api/public/%s/book for %s with %d workers (target day %s)",
		cfg.APIBaseURL, cfg.Slug, cfg.Duration, cfg.Workers, cfg.Day.Format("2006-01-02"))

	client := &http.Client{Timeout: 10 * time.Second}
	metrics := &Metrics{}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(ctx, client, cfg, metrics)
		}()
	}
	wg.Wait()

	report(metrics)

	if cfg.PostgresDSN != "" {
		if err := verifyNoOverlaps(cfg); err != nil {
			log.Fatalf("INVARIANT VIOLATED: %v", err)
		}
		log.Println("invariant holds: no overlapping appointments in the store")
	} else {
		log.Println("POSTGRES_DSN not set, skipping store verification")
	}
}

func worker(ctx context.Context, client *http.Client, cfg StormConfig, metrics *Metrics) {
	url := fmt.Sprintf("%s/api/public/%s/book", cfg.APIBaseURL, cfg.Slug)
	durations := []time.Duration{30 * time.Minute, time.Hour, 90 * time.Minute}

	for ctx.Err() == nil {
		// Random start on a 30-minute grid inside a 9:00-18:00 business day.
		// With many workers on one day the requests collide constantly,
		// which is the point.
		start := cfg.Day.Add(9 * time.Hour).Add(time.Duration(rand.Intn(18)) * 30 * time.Minute)
		end := start.Add(durations[rand.Intn(len(durations))])

		body, err := json.Marshal(bookRequest{
			ClientName:  gofakeit.Name(),
			ClientPhone: gofakeit.Phone(),
			StartTime:   start.Format(time.RFC3339),
			EndTime:     end.Format(time.RFC3339),
		})
		if err != nil {
			log.Printf("marshal request: %v", err)
			continue
		}

		began := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			log.Printf("build request: %v", err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() == nil {
				metrics.Record(time.Since(began), 0)
			}
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		metrics.Record(time.Since(began), resp.StatusCode)
	}
}

func report(m *Metrics) {
	avg, p50, p95, max := m.Stats()

	log.Println("---- bookstorm results ----")
	log.Printf("requests:  %d", atomic.LoadInt64(&m.Total))
	log.Printf("booked:    %d", atomic.LoadInt64(&m.Booked))
	log.Printf("conflicts: %d", atomic.LoadInt64(&m.Conflicts))
	log.Printf("errors:    %d", atomic.LoadInt64(&m.Errors))
	log.Printf("latency:   avg=%s p50=%s p95=%s max=%s", avg, p50, p95, max)
}

// verifyNoOverlaps self-joins the target master's appointments and fails on
// any overlapping non-canceled pair.
func verifyNoOverlaps(cfg StormConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	var pairs int
	err = pool.QueryRow(ctx, `
		SELECT count(*)
		FROM appointments a
		JOIN appointments b
		  ON a.user_id = b.user_id
		 AND a.id < b.id
		 AND a.start_time < b.end_time
		 AND b.start_time < a.end_time
		JOIN users u ON u.id = a.user_id
		WHERE u.slug = $1
		  AND a.status <> 'canceled'
		  AND b.status <> 'canceled'
	`, cfg.Slug).Scan(&pairs)
	if err != nil {
		return fmt.Errorf("overlap query: %w", err)
	}

	if pairs > 0 {
		return fmt.Errorf("%d overlapping appointment pairs found", pairs)
	}
	return nil
}
