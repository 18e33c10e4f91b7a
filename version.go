package insightengine

// Version is set at build time with -ldflags "-X github.com/a-h/insightengine.Version=...".
var Version = "dev"
