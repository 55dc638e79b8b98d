package observability

import (
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"

	"snipx-service/pkg/logger"
)

// StartProfiling pushes continuous profiles to Pyroscope when PYROSCOPE_SERVER_ADDRESS
// is set. It is a no-op otherwise.
func StartProfiling(appName string) {
	addr := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if addr == "" {
		return
	}

	runtime.SetMutexProfileFraction(5)
	runtime.SetBlockProfileRate(5)

	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   addr,
		Tags:            map[string]string{"env": os.Getenv("CONFIG_ENV")},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileBlockCount,
		},
	})
	if err != nil {
		logger.Warnf("pyroscope start failed addr=%s error=%v", addr, err)
		return
	}
	logger.Infof("pyroscope profiling enabled addr=%s app=%s", addr, appName)
}
