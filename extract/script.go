package extract

import (
	"errors"
	"time"

	"github.com/robertkrimen/otto"
)

// ScriptTimeout bounds how long a page script may run in the sandbox.
var ScriptTimeout = 200 * time.Millisecond

var errHalt = errors.New("script halted")

// ymapsStub stands in for the Yandex Maps API. It records the coordinates
// handed to Placemark and to the Map centre so they can be read back after
// the page's init code has run.
const ymapsStub = `
var __placemarks = [];
var __centers = [];
function __noop() {}
var __collection = { add: __noop, remove: __noop, removeAll: __noop };
var ymaps = {
	ready: function (fn) { if (typeof fn === "function") { fn(); } },
	Map: function (el, state) {
		if (state && state.center) { __centers.push(state.center); }
		this.geoObjects = __collection;
		this.controls = __collection;
		this.behaviors = { disable: __noop, enable: __noop };
		this.setCenter = function (c) { __centers.push(c); };
		this.setBounds = __noop;
	},
	Placemark: function (coords) { __placemarks.push(coords); },
	GeoObjectCollection: function () { this.add = __noop; },
	Clusterer: function () { this.add = __noop; }
};
var document = { getElementById: function () { return {}; }, querySelector: function () { return {}; } };
var window = this;
`

const readBack = `(function () {
	var c = __placemarks.length ? __placemarks[0] : (__centers.length ? __centers[0] : null);
	if (!c || c.length < 2) { return ""; }
	return String(c[0]) + "," + String(c[1]);
})()`

// ScriptCoordinates runs a map initialisation script against a stub ymaps
// API and returns the first placemark (or map centre) as "lat,lon". Scripts
// that fail part way still yield whatever they registered before failing.
func ScriptCoordinates(src string) (coords string, ok bool) {
	vm := otto.New()
	vm.Interrupt = make(chan func(), 1)
	timer := time.AfterFunc(ScriptTimeout, func() {
		vm.Interrupt <- func() { panic(errHalt) }
	})
	defer timer.Stop()
	defer func() {
		if r := recover(); r != nil {
			coords, ok = "", false
		}
	}()

	if _, err := vm.Run(ymapsStub); err != nil {
		return "", false
	}
	_, _ = vm.Run(src)

	v, err := vm.Run(readBack)
	if err != nil {
		return "", false
	}
	s, err := v.ToString()
	if err != nil || s == "" {
		return "", false
	}
	return FindCoordinates(s)
}
