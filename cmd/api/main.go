package main

import (
	"context"
	"os"

	"commune/internal/config"
	"commune/internal/handler"
	"commune/internal/logger"
	"commune/internal/pkg"
	"commune/internal/repository/mysql"
	"commune/internal/repository/redis"
	"commune/internal/router"
	"commune/internal/service"
)

func main() {
	cfgPath := os.Getenv("COMMUNE_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		panic(err)
	}

	log := logger.New(os.Stdout)

	if err := mysql.InitDB(cfg.MySQL.DSN); err != nil {
		log.Fatal().Err(err).Msg("mysql_init_failed")
	}
	if err := mysql.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("mysql_migrate_failed")
	}

	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatal().Err(err).Msg("redis_init_failed")
	}
	defer redis.Close()

	userRepo := mysql.NewUserRepository(mysql.DB)
	communityRepo := mysql.NewCommunityRepository(mysql.DB)
	postRepo := mysql.NewPostRepository(mysql.DB)
	commentRepo := mysql.NewCommentRepository(mysql.DB)
	outboxRepo := mysql.NewOutboxRepository(mysql.DB)
	cache := redis.NewEntityCacheRepository()

	tokens := pkg.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	authSvc := service.NewAuthService(userRepo, tokens)
	userSvc := service.NewUserService(userRepo)
	communitySvc := service.NewCommunityService(communityRepo, cache)
	postSvc := service.NewPostService(postRepo, communityRepo, cache)
	commentSvc := service.NewCommentService(commentRepo, postRepo)

	sender := service.LogSender
	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
		})
		defer producer.Close()
		sender = service.KafkaSender(producer)
	}
	relayer := service.NewOutboxRelayer(outboxRepo, sender)
	go relayer.Run(log.WithContext(context.Background()))

	r := router.New(router.Deps{
		Logger:    log,
		Tokens:    tokens,
		Actors:    userRepo,
		Auth:      handler.NewAuthHandler(authSvc),
		User:      handler.NewUserHandler(userSvc),
		Community: handler.NewCommunityHandler(communitySvc),
		Post:      handler.NewPostHandler(postSvc),
		Comment:   handler.NewCommentHandler(commentSvc),
	})

	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("server_stopped")
	}
}
