package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/spark_cart/internal/config"
	"github.com/Skotchmaster/spark_cart/internal/textgen"
)

func TestGenerator(t *testing.T) {
	t.Parallel()

	cfg := config.ServiceConfig{TextgenTimeout: time.Second, TextgenURL: "http://gen", OpenAIKey: "k"}

	cfg.TextgenProvider = config.TextgenNone
	assert.Nil(t, generator(cfg))

	cfg.TextgenProvider = config.TextgenHTTP
	assert.IsType(t, &textgen.HTTPGenerator{}, generator(cfg))

	cfg.TextgenProvider = config.TextgenOpenAI
	assert.IsType(t, &textgen.OpenAIGenerator{}, generator(cfg))
}
