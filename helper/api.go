package helper

import (
	"context"
	"errors"
	"esxi-stats/app/logging"
	"esxi-stats/config"
	"fmt"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/vim25/soap"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConnect            = errors.New("connect failed")
	ErrUnsupportedVersion = errors.New("unsupported api version")
)

var APITimeout = time.Minute

type Conn struct {
	Host      string
	Port      int
	Username  string
	Password  string
	VerifySSL bool
}

func (c Conn) Address() string {
	port := c.Port
	if port == 0 {
		port = 443
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

type API struct {
	ID      string
	Type    string
	version *APIVersion
	Client  *govmomi.Client
}

type APIVersion struct {
	Major int
	Minor int
	Patch int
	V     int
}

func Setup() {
	if config.G.Esxi.ApiTimeout > 0 {
		APITimeout = time.Duration(config.G.Esxi.ApiTimeout) * time.Second
	}
}

func ConnFromConfig() Conn {
	return Conn{
		Host:      config.G.Esxi.Host,
		Port:      config.G.Esxi.Port,
		Username:  config.G.Esxi.Username,
		Password:  config.G.Esxi.Password,
		VerifySSL: config.G.Esxi.VerifySSL,
	}
}

// Connect opens a new session against https://host:port/sdk.
func Connect(ctx context.Context, c Conn) (*API, error) {
	logging.L().Debugf("connecting to %s", c.Address())
	n := time.Now()
	u, err := soap.ParseURL(c.Address())
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConnect, c.Address(), err)
	}
	u.User = url.UserPassword(c.Username, c.Password)

	cctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	client, err := govmomi.NewClient(cctx, u, !c.VerifySSL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, c.Address(), err)
	}

	a := &API{Client: client}
	a.parseVer()
	if err := a.checkVer(); err != nil {
		a.Logout(ctx)
		return nil, err
	}
	logging.L().Debug("connected to ", c.Address(), " in ", time.Since(n))
	return a, nil
}

// Logout ends the session. Errors are logged only.
func (a *API) Logout(ctx context.Context) {
	if a == nil || a.Client == nil {
		return
	}
	lctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	if err := a.Client.Logout(lctx); err != nil {
		logging.L().Warn("logout failed: ", err)
	}
}

func (a *API) Alive(ctx context.Context) bool {
	if a == nil || a.Client == nil || !a.Client.Valid() {
		return false
	}
	actx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()
	ok, err := a.Client.SessionManager.SessionIsActive(actx)
	if err != nil {
		// ESXi hosts reject SessionIsActive; fall back to the user session
		us, uerr := a.Client.SessionManager.UserSession(actx)
		return uerr == nil && us != nil
	}
	return ok
}

func (a *API) Newer(major, minor, patch int) bool {
	if a.version == nil {
		a.parseVer()
	}
	v := version(major, minor, patch)
	ret := v <= a.version.V
	if !ret {
		logging.L().Debug(fmt.Sprintf("api version [%d.%d.%d] is older than [%d.%d.%d]",
			a.version.Major, a.version.Minor, a.version.Patch,
			major, minor, patch))
	}
	return ret
}

func (a *API) IsVCenter() bool {
	return a.Type == "VirtualCenter"
}

func (a *API) parseVer() {
	about := a.Client.ServiceContent.About
	s := strings.Split(about.ApiVersion, ".")
	nums := make([]int, 3)
	for i := 0; i < len(s) && i < 3; i++ {
		nums[i], _ = strconv.Atoi(s[i])
	}
	a.version = &APIVersion{
		Major: nums[0],
		Minor: nums[1],
		Patch: nums[2],
		V:     version(nums[0], nums[1], nums[2]),
	}
	a.Type = about.ApiType
	a.ID = about.InstanceUuid
}

func (a *API) checkVer() error {
	if !a.Newer(5, 5, 0) {
		ver := a.version
		return fmt.Errorf("%w: minimum is 5.5.0, got %d.%d.%d", ErrUnsupportedVersion, ver.Major, ver.Minor, ver.Patch)
	}
	return nil
}

func version(major, minor, patch int) int {
	return major*1000 + minor*100 + patch
}
