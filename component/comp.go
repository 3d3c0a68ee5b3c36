package component

// Component is a long lived game part driven by the server lifecycle
type Component interface {
	Init()
	AfterInit()
	BeforeShutdown()
	Shutdown()
}
