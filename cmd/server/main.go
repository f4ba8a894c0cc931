package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/safevideo/safetext/pkg/api"
	"github.com/safevideo/safetext/pkg/detect"
	"github.com/safevideo/safetext/pkg/moderation"
	"github.com/safevideo/safetext/pkg/safetext"
	"github.com/safevideo/safetext/pkg/subs"
	"github.com/safevideo/safetext/pkg/validate"
	"github.com/safevideo/safetext/pkg/words"
)

type Config struct {
	ServiceName     string `toml:"serviceName"`
	WordsDir        string `toml:"wordsDir"`
	DefaultLanguage string `toml:"defaultLanguage"`
	ModerationURL   string `toml:"moderationURL"`

	HTTPAddr   string `toml:"httpAddr"`
	LogLevel   string `toml:"logLevel"`
	KafkaAddr  string `toml:"kafkaAddr"`
	KafkaTopic string `toml:"kafkaTopic"`
	KafkaBatch int    `toml:"kafkaBatch"`
}

func main() {
	var (
		configPath string
		wordsDir   string
		language   string
		httpAddr   string
		logLevel   string
		kafkaAddr  string
		kafkaTopic string
		kafkaBatch int
	)

	flag.StringVar(&configPath, "servconf", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&wordsDir, "words", "", "Directory with per-language word lists overriding the embedded ones.")
	flag.StringVar(&language, "lang", "", "Language code to bind at startup; empty enables auto-detection.")
	flag.StringVar(&httpAddr, "http", ":8055", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "info", "Log level: debug, info, warn, error.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic.")
	flag.IntVar(&kafkaBatch, "batch", 0, "Kafka batch size.")
	flag.Parse()

	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if wordsDir != "" {
		cfg.WordsDir = wordsDir
	}
	if language != "" {
		cfg.DefaultLanguage = language
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kafkaAddr != "" {
		cfg.KafkaAddr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.KafkaTopic = kafkaTopic
	}
	if kafkaBatch != 0 {
		cfg.KafkaBatch = kafkaBatch
	}

	if !strings.Contains(cfg.HTTPAddr, ":") {
		log.Warn("[server] use ':' before port number, e.g. ':8080'")
	}

	switch cfg.LogLevel {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}

	if err := godotenv.Load(); err != nil {
		log.Debugf("[server] no .env file loaded: %v", err)
	}

	var store *words.Store
	if cfg.WordsDir != "" {
		store = words.NewDirStore(cfg.WordsDir)
	} else {
		store = words.NewStore()
	}
	log.Infof("[server] supported languages: %v", store.Languages())

	detector := detect.New(store.Languages()...)

	st := safetext.New(store, detector)
	st.SetSubtitleReader(subs.NewReader())

	if cfg.DefaultLanguage != "" {
		if err := st.SetLanguage(cfg.DefaultLanguage); err != nil {
			log.Fatalf("[server] failed to bind language %q: %v", cfg.DefaultLanguage, err)
		}
	}

	if apiKey := os.Getenv("MODERATION_API_KEY"); apiKey != "" && cfg.ModerationURL != "" {
		client := moderation.NewClient(cfg.ModerationURL, apiKey)
		st.SetValidator(validate.New(client))
		log.Infof("[server] validation against %s enabled", cfg.ModerationURL)
	} else {
		log.Info("[server] moderation API not configured, validation disabled")
	}

	var kafkaWriter *kafka.Writer
	if cfg.KafkaAddr != "" && cfg.KafkaTopic != "" {
		kafkaWriter = &kafka.Writer{
			Addr:      kafka.TCP(cfg.KafkaAddr),
			Topic:     cfg.KafkaTopic,
			BatchSize: cfg.KafkaBatch,
		}
		err := createTopic(kafkaWriter.Addr.String(), kafkaWriter.Topic)
		if err != nil {
			log.Warnf("[server] failed to create Kafka topic: %v", err)
		}
	} else {
		log.Warnf("[server] kafka was not configured, logs will not be sent to Kafka")
	}

	api, err := api.New(cfg.ServiceName, st, kafkaWriter)
	if err != nil {
		log.Fatalf("[server] failed to create API: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on port %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}
}

func createTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
