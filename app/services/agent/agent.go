package main

import (
	"flag"
	"fmt"

	"TripShopper/app/common/response"
	"TripShopper/app/services/agent/internal/bootstrap"
	"TripShopper/app/services/agent/internal/config"
	"TripShopper/app/services/agent/internal/handler"
	"TripShopper/app/services/agent/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/go-zero/rest/httpx"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

var configFile = flag.String("f", "etc/agent.yaml", "the config file")

func main() {
	flag.Parse()

	var c config.Config
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	ctx := svc.NewServiceContext(c)
	defer ctx.Close()

	handler.RegisterHandlers(server, ctx)
	httpx.SetErrorHandlerCtx(response.ErrorHandler)

	stopAsynq := bootstrap.StartAsynq(ctx)
	defer stopAsynq()

	if c.Consul.Host != "" {
		listenOn := fmt.Sprintf("%s:%d", c.Host, c.Port)
		if err := consul.RegisterService(listenOn, c.Consul); err != nil {
			logx.Errorw("register service error", logx.Field("err", err))
			panic(err)
		}
	}

	fmt.Printf("Starting server at %s:%d...\n", c.Host, c.Port)
	server.Start()
}
