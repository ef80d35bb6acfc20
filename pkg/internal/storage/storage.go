// Package storage 聚合对象存储与元数据数据库客户端.
//
// Example:
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//	    // 处理错误
//	}
//
//	s3Client := mgr.GetS3Client()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"sync"

	"github.com/yeisme/cloudspace/pkg/configs"
	dbc "github.com/yeisme/cloudspace/pkg/internal/storage/db"
	kvc "github.com/yeisme/cloudspace/pkg/internal/storage/kv"
	mqc "github.com/yeisme/cloudspace/pkg/internal/storage/mq"
	s3c "github.com/yeisme/cloudspace/pkg/internal/storage/s3"
	nlog "github.com/yeisme/cloudspace/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	S3 *s3c.Client
	DB *dbc.Client
	KV *kvc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrOnce sync.Once
)

// Init 初始化默认存储，使用全局配置.重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	var err error

	mgrOnce.Do(func() {
		cfg := configs.GetConfig()
		m := &Manager{}

		dbi, e := dbc.New(ctx, &cfg.DB, cfg.Metrics.Enabled)
		if e != nil {
			err = e

			return
		}

		m.DB = dbi

		s3i, e := s3c.New(ctx, &cfg.S3)
		if e != nil {
			err = e

			return
		}

		m.S3 = s3i

		kvi, e := kvc.NewKVClient(ctx)
		if e != nil {
			err = e

			return
		}

		m.KV = kvi

		// MQ 可选：事件总线关闭时不初始化
		if cfg.Events.Enabled {
			mqi, e := mqc.New(ctx)
			if e != nil {
				err = e

				return
			}

			m.MQ = mqi
		}

		mgr = m

		nlog.Logger().Info().Msg("storage manager initialized")
	})

	return mgr, err
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端，事件未启用时为 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}
