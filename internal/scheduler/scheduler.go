package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"logify/internal/pkg/config"
	"logify/internal/service"
)

const (
	jobReconcile = "project_counter_reconcile"

	defaultReconcileCron = "0 0 3 * * *" // 秒 分 时 日 月 周: 每天凌晨3点
	reconcileTimeout     = 5 * time.Minute
)

// Scheduler 后台定时任务
type Scheduler struct {
	cron       *cron.Cron
	logger     *zap.Logger
	counterSvc service.CounterService
	entries    map[string]cron.EntryID
}

// NewScheduler 创建调度器，同一任务上一轮未结束时跳过本轮
func NewScheduler(counterSvc service.CounterService, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:     logger,
		counterSvc: counterSvc,
		entries:    make(map[string]cron.EntryID),
	}
}

// Start 注册任务并启动
func (s *Scheduler) Start(cfg *config.SchedulerConfig) error {
	spec := cfg.ReconcileCron
	if spec == "" {
		spec = defaultReconcileCron
		s.logger.Warn("未配置scheduler.reconcile_cron，使用默认值", zap.String("cron", spec))
	}

	if err := s.register(jobReconcile, spec, func() {
		if _, err := s.TriggerReconcile(); err != nil {
			s.logger.Error("项目计数校准任务执行失败", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("定时任务调度器已启动", zap.Int("jobs", len(s.entries)))
	return nil
}

func (s *Scheduler) register(name, spec string, fn func()) error {
	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("注册定时任务 %s 失败 (%s): %w", name, spec, err)
	}
	s.entries[name] = id
	s.logger.Info("定时任务已注册", zap.String("job", name), zap.String("cron", spec), zap.Int("entry_id", int(id)))
	return nil
}

// Stop 停止调度，等待正在执行的任务结束
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("定时任务调度器已停止")
}

// TriggerReconcile 立即执行一次项目计数校准，返回修正的项目数
func (s *Scheduler) TriggerReconcile() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
	defer cancel()

	fixed, err := s.counterSvc.Reconcile(ctx)
	if err != nil {
		return fixed, err
	}
	s.logger.Info("项目计数校准完成", zap.Int("fixed", fixed))
	return fixed, nil
}

// Entries 已注册的任务
func (s *Scheduler) Entries() map[string]cron.EntryID {
	return s.entries
}

// cronLogger 将 cron 内部日志转到 zap
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
