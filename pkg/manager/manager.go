// Package manager wires pluggable resources, background components and HTTP routes.
// Plugins register themselves from init() and are materialised by the bootstrap in
// registration order.
package manager

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"snipx-service/pkg/config"
	"snipx-service/pkg/logger"
)

// Resource is a shared client (database, cache, broker, object store).
type Resource interface {
	MustOpen()
	Close()
}

type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Component is a long-lived background unit started after all resources are open.
type Component interface {
	Start() error
	Stop() error
	GetName() string
}

type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// RoutePlugin contributes HTTP routes to the engine.
type RoutePlugin interface {
	Name() string
	Register(engine *gin.Engine)
}

// Dependencies is handed to component plugins. App services are typed as interface{}
// so this package stays free of domain imports.
type Dependencies struct {
	DB              *gorm.DB
	Config          *config.Config
	VideoAppService interface{}
}

type registry struct {
	mu               sync.Mutex
	resourcePlugins  []ResourcePlugin
	componentPlugins []ComponentPlugin
	routePlugins     []RoutePlugin
	resources        []Resource
	components       []Component
}

var reg = &registry{}

func RegisterResourcePlugin(p ResourcePlugin) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.resourcePlugins = append(reg.resourcePlugins, p)
}

func RegisterComponentPlugin(p ComponentPlugin) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.componentPlugins = append(reg.componentPlugins, p)
}

func RegisterRoutePlugin(p RoutePlugin) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.routePlugins = append(reg.routePlugins, p)
}

// MustInitResources opens every registered resource, panicking on the first failure.
func MustInitResources() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, p := range reg.resourcePlugins {
		r := p.MustCreateResource()
		r.MustOpen()
		reg.resources = append(reg.resources, r)
		logger.Infof("Resource opened name=%s", p.Name())
	}
}

// CloseResources closes opened resources in reverse order.
func CloseResources() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for i := len(reg.resources) - 1; i >= 0; i-- {
		reg.resources[i].Close()
	}
	reg.resources = nil
}

// MustInitComponents creates and starts every registered component.
func MustInitComponents(deps *Dependencies) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, p := range reg.componentPlugins {
		c := p.MustCreateComponent(deps)
		if c == nil {
			logger.Infof("Component skipped name=%s", p.Name())
			continue
		}
		if err := c.Start(); err != nil {
			panic(fmt.Sprintf("start component %s: %v", p.Name(), err))
		}
		reg.components = append(reg.components, c)
		logger.Infof("Component started name=%s", c.GetName())
	}
}

// RegisterAllRoutes lets each route plugin attach its handlers.
func RegisterAllRoutes(engine *gin.Engine) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, p := range reg.routePlugins {
		p.Register(engine)
		logger.Debug("Routes registered", map[string]interface{}{"plugin": p.Name()})
	}
}

// Shutdown stops started components in reverse order.
func Shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for i := len(reg.components) - 1; i >= 0; i-- {
		c := reg.components[i]
		if err := c.Stop(); err != nil {
			logger.Warnf("Component stop failed name=%s error=%v", c.GetName(), err)
		}
	}
	reg.components = nil
}
