package config

type WorkerKeyStruct struct {
	ResetEmailQueue string
}

var WorkerKey = &WorkerKeyStruct{
	ResetEmailQueue: "reset_email_queue",
}
