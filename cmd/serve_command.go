// Package cmd holds the roled command implementations.
package cmd

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"code.cloudfoundry.org/roled/cmd/contextx"
	"code.cloudfoundry.org/roled/cmd/flags"
	"code.cloudfoundry.org/roled/pkg/api"
	"code.cloudfoundry.org/roled/pkg/api/rpc"
	"code.cloudfoundry.org/roled/pkg/controller"
	"code.cloudfoundry.org/roled/pkg/controller/recording"
	"code.cloudfoundry.org/roled/pkg/ioutilx"
	"code.cloudfoundry.org/roled/pkg/logx"
	"code.cloudfoundry.org/roled/pkg/logx/cef"
	"code.cloudfoundry.org/roled/pkg/monitor"
	"code.cloudfoundry.org/roled/pkg/platform"
	"code.cloudfoundry.org/roled/pkg/roled"
	"github.com/cactus/go-statsd-client/statsd"
)

const version = "0.1.0"

type ServeCommand struct {
	Logger flags.LagerFlag

	StateDir      string   `long:"state-dir" description:"Directory holding the per-user role snapshot files" default:"."`
	AuditFilePath string   `long:"audit-file-path" description:"File path of the security audit log"`
	Users         []int32  `long:"user" description:"Device user to start (may be specified multiple times)" default:"0"`
	Packages      []string `long:"package" description:"Package treated as installed for every started user (may be specified multiple times)"`

	StatsD statsDOptions `group:"StatsD" namespace:"statsd"`
}

type statsDOptions struct {
	Hostname string `long:"hostname" description:"Hostname used to connect to StatsD server"`
	Port     int    `long:"port" description:"Port used to connect to StatsD server" default:"8125"`
}

func (cmd ServeCommand) Execute([]string) error {
	logger := cmd.Logger.Logger("roled").WithName("serve")
	logger.Debug(starting)
	defer logger.Debug(finished)

	var securityLogger logx.SecurityLogger = emptySecurityLogger{}
	if cmd.AuditFilePath != "" {
		auditFile, err := ioutilx.OpenLogFile(cmd.AuditFilePath)
		if err != nil {
			logger.Error(failedToOpenAuditFile, err, logx.Data{Key: "path", Value: cmd.AuditFilePath})
			return err
		}
		defer auditFile.Close()

		hostname, err := os.Hostname()
		if err != nil {
			logger.Error(failedToResolveHostname, err)
			return err
		}

		securityLogger = cef.NewLogger(auditFile,
			cef.Vendor("cloud_foundry"),
			cef.Product("roled"),
			cef.Version(version),
			cef.Hostname(hostname),
			logger,
		)
	}

	shutdown := make(chan struct{})
	defer close(shutdown)

	var statter *monitor.Statter
	if cmd.StatsD.Hostname != "" {
		statsDAddr := net.JoinHostPort(cmd.StatsD.Hostname, strconv.Itoa(cmd.StatsD.Port))
		statsDClient, err := statsd.NewBufferedClient(statsDAddr, "roled", 0, 0)
		if err != nil {
			logger.Error(failedToConnectToStatsD, err, logx.Data{Key: "addr", Value: statsDAddr})
			return err
		}
		defer statsDClient.Close()

		statter = &monitor.Statter{
			Statter:   statsDClient,
			Histogram: monitor.NewThreadSafeHistogram(monitor.GrantHistogramWindow, 0, time.Minute, monitor.SigFigs),
		}
		go sendStats(statter, logger, shutdown)
	}

	catalog := defaultRoleCatalog()
	pm := platform.NewInMemoryPackageManager()
	um := platform.NewInMemoryUserManager()
	for _, id := range cmd.Users {
		user := roled.UserID(id)
		um.AddUser(user)
		for _, packageName := range cmd.Packages {
			pm.AddPackage(packageName, user)
		}
	}

	factory := func(user roled.UserID, store controller.RoleStore, ctrlLogger logx.Logger) controller.RoleController {
		local := controller.NewLocal(user, catalog, pm, store, ctrlLogger)
		if statter == nil {
			return local
		}
		return recording.NewController(local, statter, ctrlLogger, recording.WithOutcomeRecorder(statter))
	}

	service := api.NewService(catalog, pm, um,
		api.WithLogger(logger),
		api.WithStateDir(cmd.StateDir),
		api.WithControllerFactory(factory),
	)
	defer service.Stop()

	server := rpc.NewRoleServiceServer(logger, securityLogger, rpc.CallerAuthorizer{}, service)

	for _, id := range cmd.Users {
		service.OnUserStarting(context.Background(), roled.UserID(id))
	}

	logDefaultApplications(server, logger, cmd.Users, catalog)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	return nil
}

// logDefaultApplications reads the default-application assignments back
// through the request surface, exercising the same path a binder front end
// would use.
func logDefaultApplications(server *rpc.RoleServiceServer, logger logx.Logger, users []int32, catalog platform.RoleCatalog) {
	for _, id := range users {
		user := roled.UserID(id)
		ctx := contextx.WithCaller(context.Background(), contextx.NewCaller(
			os.Getuid(), os.Getpid(), user,
			roled.PermissionManageDefaultApplications,
		))

		for _, role := range catalog.Roles() {
			if !roled.IsDefaultApplicationRole(role.Name) {
				continue
			}

			holder, err := server.GetDefaultApplicationAsUser(ctx, role.Name, user)
			if err != nil {
				logger.Error(failedToGetDefaultApplication, err, logx.Data{Key: "role.name", Value: role.Name})
				continue
			}
			logger.Info(defaultApplication,
				logx.Data{Key: "userId", Value: user},
				logx.Data{Key: "role.name", Value: role.Name},
				logx.Data{Key: "package.name", Value: holder},
			)
		}
	}
}

func sendStats(statter *monitor.Statter, logger logx.Logger, shutdown <-chan struct{}) {
	ticker := time.NewTicker(monitor.GrantHistogramRefreshTime)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			statter.SendStats(logger)
			statter.Rotate()
		}
	}
}

func defaultRoleCatalog() *platform.StaticRoleCatalog {
	return platform.NewStaticRoleCatalog(
		platform.RoleConfig{
			Name:           roled.RoleAssistant,
			DefaultHolders: []string{"com.android.assistant"},
			Visible:        true,
		},
		platform.RoleConfig{
			Name:           roled.RoleBrowser,
			DefaultHolders: []string{"com.android.chrome", "org.chromium.chrome"},
			Visible:        true,
		},
		platform.RoleConfig{
			Name:    roled.RoleCallRedirection,
			Visible: true,
		},
		platform.RoleConfig{
			Name:    roled.RoleCallScreening,
			Visible: true,
		},
		platform.RoleConfig{
			Name:           roled.RoleDialer,
			DefaultHolders: []string{"com.android.dialer"},
			Visible:        true,
		},
		platform.RoleConfig{
			Name:           roled.RoleHome,
			DefaultHolders: []string{"com.android.launcher3"},
			Visible:        true,
		},
		platform.RoleConfig{
			Name:           roled.RoleSMS,
			DefaultHolders: []string{"com.android.messaging"},
			Visible:        true,
		},
	)
}

type emptySecurityLogger struct{}

func (emptySecurityLogger) Log(context.Context, string, string, ...logx.SecurityData) {}
