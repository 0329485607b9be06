package plugins

// Built-in modules register themselves from their init functions.
import (
	_ "github.com/songpengyi/enertalk-alwayson-calculator/infra/metrics"
	_ "github.com/songpengyi/enertalk-alwayson-calculator/infra/mqtt"
	_ "github.com/songpengyi/enertalk-alwayson-calculator/infra/provider/enertalk"
	_ "github.com/songpengyi/enertalk-alwayson-calculator/infra/provider/influx"
	_ "github.com/songpengyi/enertalk-alwayson-calculator/infra/provider/static"
)
