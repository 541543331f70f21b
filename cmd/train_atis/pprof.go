package main

import "os"
import "runtime/pprof"

// profile collects a cpu profile into default.pgo until the returned stop is called
func profile(enabled bool) (stop func()) {
	if !enabled {
		return func() {}
	}
	f, err := os.Create("default.pgo")
	if err != nil {
		println("pgo:", err.Error())
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		println("pgo:", err.Error())
		f.Close()
		return func() {}
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}
