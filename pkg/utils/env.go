package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type EnvVars struct {
	Host          string
	Port          int // gRPC ranker port
	ApiPort       int // HTTP API port
	RabbitHost    string
	RabbitUser    string
	RabbitPass    string
	WorkQueue     string
	ResultQueue   string
	MaxIterations int
	NodeLog       bool
	ServerLog     bool
}

func ReadEnvVars() EnvVars {
	// Loading .env file if it exists
	// It will not override already existing env vars
	_ = godotenv.Load()
	return EnvVars{
		Host:          readStringEnvVarOr("HOST", ""),
		Port:          ReadIntEnvVarOr("PORT", 50051),
		ApiPort:       ReadIntEnvVarOr("API_PORT", 8080),
		RabbitHost:    readStringEnvVarOr("RABBIT_HOST", "localhost"),
		RabbitUser:    readStringEnvVarOr("RABBIT_USER", "guest"),
		RabbitPass:    readStringEnvVarOr("RABBIT_PASSWORD", "guest"),
		WorkQueue:     readStringEnvVarOr("WORK_QUEUE", "work"),
		ResultQueue:   readStringEnvVarOr("RESULT_QUEUE", "result"),
		MaxIterations: ReadIntEnvVarOr("MAX_ITERATIONS", 0),
		NodeLog:       readBoolEnvVarOr("NODE_LOG", false),
		ServerLog:     readBoolEnvVarOr("SERVER_LOG", false),
	}
}

// amqp connection string
func (e EnvVars) RabbitUrl() string {
	return fmt.Sprintf("amqp://%s:%s@%s:5672/", e.RabbitUser, e.RabbitPass, e.RabbitHost)
}

func readStringEnvVar(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s not set", name)
	}
	return value, nil
}

func readIntEnvVar(name string) (int, error) {
	valueStr, err := readStringEnvVar(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to a number: %v", name, err)
	}
	return value, nil
}

func readStringEnvVarOr(name string, or string) string {
	value, err := readStringEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func ReadIntEnvVarOr(name string, or int) int {
	value, err := readIntEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func readBoolEnvVarOr(name string, or bool) bool {
	valueStr, err := readStringEnvVar(name)
	if err != nil {
		return or
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return or
	}
	return value
}
