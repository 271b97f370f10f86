package charts

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

func baseSpec(data []map[string]any) map[string]any {
	return map[string]any{
		"$schema": vegaLiteSchema,
		"width":   "container",
		"data":    map[string]any{"values": data},
	}
}

func axis(field, typ, title string) map[string]any {
	return map[string]any{"field": field, "type": typ, "title": title}
}

func barSpec(data []map[string]any, xField, xType, xTitle, yField, yTitle string) map[string]any {
	spec := baseSpec(data)
	spec["mark"] = "bar"
	spec["encoding"] = map[string]any{
		"x": axis(xField, xType, xTitle),
		"y": axis(yField, "quantitative", yTitle),
	}
	return spec
}

func lineSpec(data []map[string]any, xField, xTitle, yField, yTitle string) map[string]any {
	spec := baseSpec(data)
	spec["mark"] = map[string]any{"type": "line", "point": true}
	spec["encoding"] = map[string]any{
		"x": axis(xField, "nominal", xTitle),
		"y": axis(yField, "quantitative", yTitle),
	}
	return spec
}

func scatterSpec(data []map[string]any, xField, xTitle, yField, yTitle, colorField string) map[string]any {
	spec := baseSpec(data)
	spec["mark"] = map[string]any{"type": "circle", "size": 80}
	encoding := map[string]any{
		"x": axis(xField, "quantitative", xTitle),
		"y": axis(yField, "quantitative", yTitle),
	}
	if colorField != "" {
		encoding["color"] = map[string]any{"field": colorField, "type": "nominal"}
	}
	spec["encoding"] = encoding
	return spec
}

func pieSpec(data []map[string]any, thetaField, thetaTitle, colorField, colorTitle string) map[string]any {
	spec := baseSpec(data)
	spec["mark"] = "arc"
	spec["encoding"] = map[string]any{
		"theta": axis(thetaField, "quantitative", thetaTitle),
		"color": axis(colorField, "nominal", colorTitle),
	}
	return spec
}
