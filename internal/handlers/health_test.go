package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mgramigna/gramigna.dev/internal/posts"
	"github.com/mgramigna/gramigna.dev/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStorage struct{}

func (failingStorage) List(context.Context, string) ([]string, error) { return nil, errors.New("down") }
func (failingStorage) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("down")
}
func (failingStorage) Exists(context.Context, string) (bool, error) { return false, errors.New("down") }

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		storage    storage.Storage
		setupDB    func(sqlmock.Sqlmock)
		wantCode   int
		wantStatus string
		wantDB     string
	}{
		{
			name:       "content only",
			storage:    storage.NewFSStorage(fstest.MapFS{}),
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantDB:     "skipped",
		},
		{
			name:       "database reachable",
			storage:    storage.NewFSStorage(fstest.MapFS{}),
			setupDB:    func(m sqlmock.Sqlmock) { m.ExpectPing() },
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
			wantDB:     "ok",
		},
		{
			name:       "database down degrades",
			storage:    storage.NewFSStorage(fstest.MapFS{}),
			setupDB:    func(m sqlmock.Sqlmock) { m.ExpectPing().WillReturnError(sql.ErrConnDone) },
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
			wantDB:     "unhealthy",
		},
		{
			name:       "content store down",
			storage:    failingStorage{},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantDB:     "skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := &HealthDeps{
				Storage: tt.storage,
				Posts:   posts.NewService(&testMockRepo{}, "blog"),
			}
			if tt.setupDB != nil {
				db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
				require.NoError(t, err)
				defer func() { _ = db.Close() }()
				tt.setupDB(mock)
				deps.DB = db
			}

			rec := httptest.NewRecorder()
			Health(deps)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp healthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantDB, resp.Checks["db"])
			assert.Equal(t, "skipped", resp.Checks["rabbitmq"])
			assert.Equal(t, 0, resp.Posts)
		})
	}
}

func TestHealth_SilentBrokerIsBounded(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		var held []net.Conn
		defer func() {
			for _, c := range held {
				_ = c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			held = append(held, conn)
		}
	}()

	prev := brokerDialTimeout
	brokerDialTimeout = 200 * time.Millisecond
	t.Cleanup(func() { brokerDialTimeout = prev })

	deps := &HealthDeps{
		Storage:     storage.NewFSStorage(fstest.MapFS{}),
		Posts:       posts.NewService(&testMockRepo{}, "blog"),
		RabbitMQURL: "amqp://guest:guest@" + ln.Addr().String() + "/",
	}

	start := time.Now()
	rec := httptest.NewRecorder()
	Health(deps)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.Equal(t, http.StatusOK, rec.Code)
	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unhealthy", resp.Checks["rabbitmq"])
}
