package main

import (
	"os"

	"github.com/InfiniteConsult/0008-cicd-part04-jenkins/internal/common"
)

// ExitHandler lets tests intercept process termination.
type ExitHandler interface {
	Exit(code int)
	LogFatalError(err error, msg string, keyvals ...any)
}

type osExitHandler struct{}

func (osExitHandler) Exit(code int) { os.Exit(code) }

func (h osExitHandler) LogFatalError(err error, msg string, keyvals ...any) {
	kv := make([]any, 0, len(keyvals)+2)
	kv = append(kv, "error", err)
	kv = append(kv, keyvals...)
	common.GetLogger().WithComponent("main").Error(msg, kv...)
	h.Exit(1)
}

var exitHandler ExitHandler = osExitHandler{}
