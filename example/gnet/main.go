// FILE: example/gnet/main.go
package main

import (
	"time"

	"github.com/panjf2000/gnet/v2"

	"github.com/lixenwraith/fanlog"
	"github.com/lixenwraith/fanlog/compat"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	log *fanlog.Logger
}

func (es *echoServer) OnBoot(eng gnet.Engine) gnet.Action {
	es.log.Success("echo server ready")
	return gnet.None
}

func (es *echoServer) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	es.log.Debug("connection opened", fanlog.Fields{"remote": c.RemoteAddr().String()})
	return nil, gnet.None
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	c.Write(buf)
	return gnet.None
}

func main() {
	reg, err := fanlog.NewBuilder().
		Directory("/var/log/gnet").
		Name("gnet").
		LevelString("debug").
		EnableFile(true).
		Format("json").
		Build()
	if err != nil {
		panic(err)
	}
	defer reg.Shutdown(2 * time.Second)

	// gnet's own messages carry key=value pairs, lift them into fields
	gnetAdapter, err := compat.NewBuilder("gnet").
		WithRegistry(reg).
		BuildGnet(compat.WithFieldExtraction())
	if err != nil {
		panic(err)
	}

	err = gnet.Run(
		&echoServer{log: reg.Get("echo")},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		reg.Get("echo").Exception(err, "server stopped")
	}
}
