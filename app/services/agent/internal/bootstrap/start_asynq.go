package bootstrap

import (
	"TripShopper/app/services/agent/internal/mq"
	"TripShopper/app/services/agent/internal/svc"

	"github.com/hibiken/asynq"
	"github.com/zeromicro/go-zero/core/logx"
)

// StartAsynq runs the archive worker next to the REST server. It is a no-op
// when archiving is not configured.
func StartAsynq(sc *svc.ServiceContext) func() {
	if sc.AsynqClient == nil || sc.Turns == nil {
		logx.Infow("archive worker disabled")
		return func() {}
	}

	addr := sc.Config.AsynqConf.Addr
	if addr == "" {
		addr = sc.Config.RedisConf.Host
	}
	queues := sc.Config.AsynqServerConf.Queues
	if len(queues) == 0 {
		queues = map[string]int{mq.ArchiveQueue: 1}
	}
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: addr}, asynq.Config{
		Concurrency: sc.Config.AsynqServerConf.Concurrency,
		Queues:      queues,
	})
	mux := mq.NewAsynqMux(sc.Turns)
	go func() {
		if err := srv.Run(mux); err != nil {
			panic(err)
		}
	}()
	return func() {
		srv.Shutdown()
	}
}
