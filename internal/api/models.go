package api

import (
	"github.com/tcp_snm/pulse/internal/service/auth_service"
	"github.com/tcp_snm/pulse/internal/service/stats_service"
	"github.com/tcp_snm/pulse/internal/service/student_service"
	"github.com/tcp_snm/pulse/internal/service/sync_service"
)

type Api struct {
	AuthServiceConfig    *auth_service.AuthService
	StudentServiceConfig *student_service.StudentService
	StatsServiceConfig   *stats_service.StatsService
	SyncServiceConfig    *sync_service.SyncService
}
