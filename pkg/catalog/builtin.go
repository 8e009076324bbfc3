package catalog

import "slices"

// BuiltinName names the embedded bright star table.
const BuiltinName = "builtin"

// Builtin returns the embedded bright star table: the stars of the built-in
// constellation figures plus the brightest stars of both hemispheres. J2000
// positions, Hipparcos numbers.
func Builtin() *Catalog {
	return &Catalog{Name: BuiltinName, Stars: slices.Clone(brightStars)}
}

var brightStars = []Star{
	{32349, "Sirius", 101.287, -16.716, -1.46},
	{30438, "Canopus", 95.988, -52.696, -0.74},
	{69673, "Arcturus", 213.915, 19.182, -0.05},
	{91262, "Vega", 279.235, 38.784, 0.03},
	{24608, "Capella", 79.172, 45.998, 0.08},
	{24436, "Rigel", 78.634, -8.202, 0.13},
	{37279, "Procyon", 114.826, 5.225, 0.34},
	{7588, "Achernar", 24.429, -57.237, 0.46},
	{27989, "Betelgeuse", 88.793, 7.407, 0.50},
	{68702, "Hadar", 210.956, -60.373, 0.61},
	{97649, "Altair", 297.696, 8.868, 0.76},
	{60718, "Acrux", 186.650, -63.099, 0.76},
	{21421, "Aldebaran", 68.980, 16.509, 0.85},
	{80763, "Antares", 247.352, -26.432, 0.96},
	{65474, "Spica", 201.298, -11.161, 0.97},
	{37826, "Pollux", 116.329, 28.026, 1.14},
	{113368, "Fomalhaut", 344.413, -29.622, 1.16},
	{102098, "Deneb", 310.358, 45.280, 1.25},
	{62434, "Mimosa", 191.930, -59.689, 1.25},
	{49669, "Regulus", 152.093, 11.967, 1.35},
	{33579, "Adhara", 104.656, -28.972, 1.50},
	{36850, "Castor", 113.650, 31.889, 1.58},
	{61084, "Gacrux", 187.791, -57.113, 1.63},
	{85927, "Shaula", 263.402, -37.104, 1.63},
	{25336, "Bellatrix", 81.283, 6.350, 1.64},
	{25428, "Elnath", 81.573, 28.608, 1.65},
	{26311, "Alnilam", 84.053, -1.202, 1.69},
	{26727, "Alnitak", 85.190, -1.943, 1.77},
	{62956, "Alioth", 193.507, 55.960, 1.77},
	{54061, "Dubhe", 165.932, 61.751, 1.79},
	{15863, "Mirfak", 51.081, 49.861, 1.79},
	{67301, "Alkaid", 206.885, 49.313, 1.86},
	{11767, "Polaris", 37.954, 89.264, 2.02},
	{65378, "Mizar", 200.981, 54.925, 2.04},
	{27366, "Saiph", 86.939, -9.670, 2.09},
	{72607, "Kochab", 222.676, 74.156, 2.08},
	{50583, "Algieba", 154.993, 19.842, 2.08},
	{57632, "Denebola", 177.265, 14.572, 2.13},
	{25930, "Mintaka", 83.002, -0.299, 2.23},
	{100453, "Sadr", 305.557, 40.257, 2.23},
	{3179, "Schedar", 10.127, 56.537, 2.23},
	{746, "Caph", 2.295, 59.150, 2.27},
	{53910, "Merak", 165.460, 56.382, 2.37},
	{58001, "Phecda", 178.458, 53.695, 2.44},
	{4427, "Navi", 14.177, 60.717, 2.47},
	{102488, "Aljanah", 311.553, 33.970, 2.48},
	{54872, "Zosma", 168.527, 20.524, 2.56},
	{6686, "Ruchbah", 21.454, 60.235, 2.68},
	{97165, "Fawaris", 296.244, 45.131, 2.87},
	{75097, "Pherkad", 230.182, 71.834, 3.00},
	{95947, "Albireo", 292.680, 27.960, 3.18},
	{54879, "Chertan", 168.560, 15.430, 3.33},
	{59774, "Megrez", 183.857, 57.033, 3.31},
	{8886, "Segin", 28.599, 63.670, 3.35},
	{50335, "Adhafera", 154.173, 23.417, 3.43},
	{48455, "Rasalas", 148.191, 26.007, 3.88},
}
