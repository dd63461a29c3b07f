package catalog

// Default returns the stock catalog: five regional branches covering
// every specialty, three pressure equipment units and two mechanical
// equipment units.
func Default() *Catalog {
	c, err := New([]Entity{
		{ID: "nd", Name: "Ningdong Branch", Category: CategoryCombined},
		{ID: "szs", Name: "Shizuishan Branch", Category: CategoryCombined},
		{ID: "wz", Name: "Wuzhong Branch", Category: CategoryCombined},
		{ID: "zw", Name: "Zhongwei Branch", Category: CategoryCombined},
		{ID: "gy", Name: "Guyuan Branch", Category: CategoryCombined},
		{ID: "cy1", Name: "Pressure Equipment Dept. 1", Category: CategoryPressure},
		{ID: "cy2", Name: "Pressure Equipment Dept. 2", Category: CategoryPressure},
		{ID: "zh", Name: "General Inspection Station", Category: CategoryPressure},
		{ID: "jd1", Name: "Mechanical Equipment Dept. 1", Category: CategoryMechanical},
		{ID: "jd2", Name: "Mechanical Equipment Dept. 2", Category: CategoryMechanical},
	})
	if err != nil {
		panic(err)
	}
	return c
}
