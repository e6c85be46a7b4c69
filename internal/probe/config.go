package probe

// Config controls a probe run.
type Config struct {
	Workers int      // concurrent workers; below 1 uses runtime.NumCPU()
	Repeat  int      // times each check runs; below 1 means once
	TaskIDs []string // tasks fetched with GetTask
	Limit   int      // limit passed to GetRecentLogs; 0 uses the client default
}

func (c Config) normalized() Config {
	if c.Repeat < 1 {
		c.Repeat = 1
	}
	return c
}
