package version

// Version is the current kbt version. It is a var so releases can set it:
//
//	go build -ldflags "-X github.com/vanderheijden86/kbtree/pkg/version.Version=v0.2.0" ./cmd/kbt
var Version = "v0.1.0-dev"

// UserAgent is sent with every Kanboard request.
func UserAgent() string {
	return "kbt/" + Version
}
