package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/CodMac/go-treesitter-gii/config"
	"github.com/CodMac/go-treesitter-gii/logs"
	"github.com/CodMac/go-treesitter-gii/output"
	"github.com/CodMac/go-treesitter-gii/service"
	"github.com/CodMac/go-treesitter-gii/store"
	transport "github.com/CodMac/go-treesitter-gii/transport/http"

	// 导入实体实现，以触发其 init() 函数注册解析器与关系提取器
	_ "github.com/CodMac/go-treesitter-gii/x/nest"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "gii",
		Usage: "Scaffolding for @steroidsjs/nest models, DTOs, enums and permissions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file, defaults to configs/conf.yml searched upward"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			projectsCommand(),
			structureCommand(),
			parseCommand(),
			generateCommand("preview", "Print the files a description would change", false),
			generateCommand("save", "Generate and write the files a description changes", true),
			graphCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app 是各命令共用的依赖
type app struct {
	loader *config.Loader
	svc    *service.ProjectService
}

func setup(c *cli.Command) (*app, error) {
	loader, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	conf := loader.Conf()
	if err := logs.Init(conf.App.Name, conf.Log); err != nil {
		return nil, err
	}
	if loader.Path() != "" {
		logs.Debug("配置已加载", zap.String("path", loader.Path()))
	}
	svc := service.NewProjectService(conf.Projects, store.NewDiskStore(), conf.Processor.Workers)
	return &app{loader: loader, svc: svc}, nil
}

func projectFlag() cli.Flag {
	return &cli.StringFlag{Name: "project", Aliases: []string{"p"}, Required: true, Usage: "project name from the config"}
}

func idFlag() cli.Flag {
	return &cli.StringFlag{Name: "id", Required: true, Usage: "project relative file or directory id"}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "HTTP listen address, overrides http.addr"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			defer logs.Sync()
			return runServer(ctx, a, c.String("addr"))
		},
	}
}

func runServer(ctx context.Context, a *app, addr string) error {
	conf := a.loader.Conf()
	httpConf := conf.HTTP
	if addr != "" {
		httpConf.Addr = addr
	}

	// 配置热更新：日志级别与项目列表
	a.loader.OnChange(func(conf *config.Config) {
		logs.SetLevel(conf.Log.Level)
		a.svc.SetProjects(conf.Projects)
		logs.Info("配置已更新", zap.Int("projects", len(conf.Projects)))
	})
	a.loader.Watch(func(err error) {
		logs.Warn("配置解析失败，沿用旧配置", zap.Error(err))
	})

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := transport.NewHttpServer(httpConf, nil)
	transport.RegisterProjectRoutes(srv.Group(), a.svc)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logs.Info("HTTP 服务启动", zap.String("addr", httpConf.Addr))
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Timeout(conf.HTTP.ShutdownTimeout, time.Second))
	defer cancel()
	logs.Info("HTTP 服务关闭")
	return srv.Shutdown(shutdownCtx)
}

func projectsCommand() *cli.Command {
	return &cli.Command{
		Name:  "projects",
		Usage: "List configured projects with a recognized structure",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			return printJSON(a.svc.List())
		},
	}
}

func structureCommand() *cli.Command {
	return &cli.Command{
		Name:  "structure",
		Usage: "Print the structure tree of a project",
		Flags: []cli.Flag{projectFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			project, err := a.svc.Structure(c.String("project"))
			if err != nil {
				return err
			}
			return printJSON(project)
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Print the description of an entity file",
		Flags: []cli.Flag{projectFlag(), idFlag()},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			item, err := a.svc.Parse(c.String("project"), c.String("id"))
			if err != nil {
				return err
			}
			return printJSON(item)
		},
	}
}

func generateCommand(name, usage string, write bool) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			projectFlag(),
			idFlag(),
			&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Value: "-", Usage: "JSON description file, - for stdin"},
			&cli.BoolFlag{Name: "json", Usage: "print the changed files as JSON instead of diffs"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			data, err := readInput(c.String("data"))
			if err != nil {
				return err
			}

			fn := a.svc.Preview
			if write {
				fn = a.svc.Save
			}
			changes, err := fn(c.String("project"), c.String("id"), data)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(changes)
			}
			if len(changes) == 0 {
				fmt.Println("No changes.")
				return nil
			}
			for _, change := range changes {
				fmt.Print(change.Diff)
			}
			return nil
		},
	}
}

func graphCommand() *cli.Command {
	return &cli.Command{
		Name:  "graph",
		Usage: "Export the entity relation graph",
		Flags: []cli.Flag{
			projectFlag(),
			&cli.StringFlag{Name: "format", Value: "jsonl", Usage: "jsonl or mermaid"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, stdout when empty"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(c)
			if err != nil {
				return err
			}
			graph, err := a.svc.Graph(ctx, c.String("project"))
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out := c.String("out"); out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch c.String("format") {
			case "mermaid":
				return output.ExportMermaidHTML(w, graph.Project, graph.Context, graph.Relations)
			case "jsonl":
				if _, err := output.ExportEntities(w, graph.Context); err != nil {
					return err
				}
				_, err := output.ExportRelations(w, graph.Relations)
				return err
			default:
				return fmt.Errorf("unsupported format: %s", c.String("format"))
			}
		},
	}
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(name)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
