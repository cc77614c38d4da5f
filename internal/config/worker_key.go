package config

type WorkerKeyStruct struct {
	MonitorLogQueue string
}

var WorkerKey = &WorkerKeyStruct{
	MonitorLogQueue: "monitor_log_queue",
}
