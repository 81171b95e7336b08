package species

// Default returns a table holding the species needed for lepton and
// proton collisions with light hadronization products.
// Masses and widths in GeV, lifetimes in mm/c.
func Default(opts ...TableOption) *Table {
	t := NewTable(opts...)
	for _, e := range defaultEntries {
		t.MustAdd(e)
	}
	return t
}

var defaultEntries = []Entry{
	{ID: 1, Name: "d", AntiName: "dbar", SpinType: 2, ChargeType: -1, ColType: 1, M0: 0.33},
	{ID: 2, Name: "u", AntiName: "ubar", SpinType: 2, ChargeType: 2, ColType: 1, M0: 0.33},
	{ID: 3, Name: "s", AntiName: "sbar", SpinType: 2, ChargeType: -1, ColType: 1, M0: 0.50},
	{ID: 4, Name: "c", AntiName: "cbar", SpinType: 2, ChargeType: 2, ColType: 1, M0: 1.50},
	{ID: 5, Name: "b", AntiName: "bbar", SpinType: 2, ChargeType: -1, ColType: 1, M0: 4.80},
	{ID: 6, Name: "t", AntiName: "tbar", SpinType: 2, ChargeType: 2, ColType: 1,
		M0: 171.0, MWidth: 1.4, MMin: 160.0, MMax: 180.0},
	{ID: 11, Name: "e-", AntiName: "e+", SpinType: 2, ChargeType: -3, M0: 0.000511},
	{ID: 12, Name: "nu_e", AntiName: "nu_ebar", SpinType: 2},
	{ID: 13, Name: "mu-", AntiName: "mu+", SpinType: 2, ChargeType: -3, M0: 0.10566, Tau0: 6.58654e5},
	{ID: 14, Name: "nu_mu", AntiName: "nu_mubar", SpinType: 2},
	{ID: 21, Name: "g", AntiName: "void", SpinType: 3, ColType: 2},
	{ID: 22, Name: "gamma", AntiName: "void", SpinType: 3},
	{ID: 23, Name: "Z0", AntiName: "void", SpinType: 3, M0: 91.188, MWidth: 2.478, MMin: 10.0, MMax: 200.0,
		Channels: []DecayChannel{
			{OnMode: 1, BRatio: 0.1540, Products: []int{1, -1}},
			{OnMode: 1, BRatio: 0.1190, Products: []int{2, -2}},
			{OnMode: 1, BRatio: 0.1540, Products: []int{3, -3}},
			{OnMode: 1, BRatio: 0.1190, Products: []int{4, -4}},
			{OnMode: 1, BRatio: 0.1520, Products: []int{5, -5}},
			{OnMode: 1, BRatio: 0.0336, Products: []int{11, -11}},
			{OnMode: 1, BRatio: 0.0336, Products: []int{13, -13}},
		}},
	{ID: 24, Name: "W+", AntiName: "W-", SpinType: 3, ChargeType: 3, M0: 80.40, MWidth: 2.14, MMin: 10.0, MMax: 200.0},
	{ID: 90, Name: "system", AntiName: "void"},
	{ID: 111, Name: "pi0", AntiName: "void", SpinType: 1, M0: 0.13498, Tau0: 2.51e-5,
		Channels: []DecayChannel{
			{OnMode: 1, BRatio: 0.98798, Products: []int{22, 22}},
			{OnMode: 1, BRatio: 0.01198, MEMode: 11, Products: []int{22, 11, -11}},
		}},
	{ID: 211, Name: "pi+", AntiName: "pi-", SpinType: 1, ChargeType: 3, M0: 0.13957, Tau0: 7.8045e3},
	{ID: 321, Name: "K+", AntiName: "K-", SpinType: 1, ChargeType: 3, M0: 0.49368, Tau0: 3.713e3},
	{ID: 2112, Name: "n0", AntiName: "nbar0", SpinType: 2, M0: 0.93957},
	{ID: 2212, Name: "p+", AntiName: "pbar-", SpinType: 2, ChargeType: 3, M0: 0.93827},
}
