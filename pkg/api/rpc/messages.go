package rpc

const (
	starting = "starting"
	success  = "success"
)
