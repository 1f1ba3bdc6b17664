package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScriptCoordinates_Placemark(t *testing.T) {
	src := `
		ymaps.ready(init);
		function init() {
			var myMap = new ymaps.Map("map", { center: [55.70, 37.50], zoom: 16 });
			var placemark = new ymaps.Placemark([55.751244, 37.618423], { balloonContent: "Кафе" });
			myMap.geoObjects.add(placemark);
		}`
	got, ok := ScriptCoordinates(src)
	assert.True(t, ok)
	assert.Equal(t, "55.751244,37.618423", got)
}

func TestScriptCoordinates_CenterOnly(t *testing.T) {
	src := `ymaps.ready(function () { new ymaps.Map("map", { center: ["59.9386", "30.3141"], zoom: 12 }); });`
	got, ok := ScriptCoordinates(src)
	assert.True(t, ok)
	assert.Equal(t, "59.9386,30.3141", got)
}

func TestScriptCoordinates_PartialFailure(t *testing.T) {
	src := `
		var pm = new ymaps.Placemark([56.8389, 60.6057]);
		undefinedFunction();`
	got, ok := ScriptCoordinates(src)
	assert.True(t, ok)
	assert.Equal(t, "56.8389,60.6057", got)
}

func TestScriptCoordinates_NoMap(t *testing.T) {
	_, ok := ScriptCoordinates(`console.log("hello")`)
	assert.False(t, ok)

	_, ok = ScriptCoordinates(`this is not javascript {{{`)
	assert.False(t, ok)
}

func TestScriptCoordinates_InfiniteLoop(t *testing.T) {
	_, ok := ScriptCoordinates(`while (true) {}`)
	assert.False(t, ok)
}
