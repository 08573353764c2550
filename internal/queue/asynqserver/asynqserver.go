package asynqserver

import (
	"github.com/hibiken/asynq"
	"github.com/gigs-work/backend/internal/cache"
	"github.com/gigs-work/backend/internal/config"
	"github.com/gigs-work/backend/internal/queue/processor"
	"github.com/gigs-work/backend/internal/queue/task"
	"github.com/gigs-work/backend/internal/worker"
)

func New(cfg config.Cache, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: 10,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.JobPublishedEmailTaskName, processor.NewJobPublishedEmailProcessor(workers))
	mux.Handle(task.ModerateJobTaskName, processor.NewModerateJobProcessor(workers))
	queues := map[string]int{
		task.JobPublishedEmailQueueName: 1,
		task.ModerateJobQueueName:       1,
	}
	return mux, queues
}
