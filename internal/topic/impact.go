package topic

// Impact is the canned market note for one topic.
type Impact struct {
	Crypto  string
	Gold    string
	Outlook string
}

var impacts = map[Topic]Impact{
	Fed: {
		Crypto:  "Ekspektasi perubahan kebijakan Fed dapat menggoyang sentimen risk-on pada BTC dan pasar kripto.",
		Gold:    "Langkah Fed biasanya memengaruhi yield dan USD, sehingga emas bisa tertekan atau menguat tergantung nada kebijakan.",
		Outlook: "Pasar menanti panduan lanjutan dari pejabat Fed; rilis data berikutnya berpotensi memicu volatilitas baru.",
	},
	Inflation: {
		Crypto:  "Data inflasi tinggi bisa memicu kekhawatiran tightening, menekan aset kripto.",
		Gold:    "Inflasi tinggi sering menopang emas sebagai lindung nilai jangka panjang.",
		Outlook: "Jika tekanan harga berlanjut, ekspektasi kenaikan suku bunga dapat menahan sentimen risiko dan mendukung aset defensif.",
	},
	War: {
		Crypto:  "Ketegangan geopolitik mendorong risk-off; BTC cenderung volatil dan bisa tertekan jangka pendek.",
		Gold:    "Konflik meningkatkan permintaan safe haven sehingga emas biasanya mendapat dukungan.",
		Outlook: "Eskalasi konflik berpotensi menjaga volatilitas lintas aset tinggi; investor fokus pada perkembangan diplomatik dan respon kebijakan.",
	},
	China: {
		Crypto:  "Sentimen risiko global terkait China bisa mempengaruhi arus modal kripto.",
		Gold:    "Kekhawatiran terhadap ekonomi China dapat meningkatkan permintaan emas sebagai diversifikasi.",
		Outlook: "Keputusan kebijakan China dan arah perdagangan global menjadi katalis berikutnya; ketidakpastian bisa menekan aset berisiko.",
	},
	Economy: {
		Crypto:  "Data ekonomi kuat dapat mendukung aset berisiko; sebaliknya pelemahan memicu aksi hindari risiko pada kripto.",
		Gold:    "Perlambatan ekonomi sering memperkuat emas karena investor mencari aset defensif.",
		Outlook: "Rangkaian data berikut akan menentukan arah; tanda-tanda pelemahan lanjutan dapat memicu rotasi ke aset defensif.",
	},
	Bank: {
		Crypto:  "Isu perbankan dapat menyalakan narasi 'crypto as alternative', tetapi juga memicu risk-off umum.",
		Gold:    "Ketidakpastian sektor bank biasanya positif bagi emas sebagai tempat berlindung.",
		Outlook: "Jika tekanan sektor bank melebar, regulator bisa merespons dengan kebijakan tambahan; volatilitas finansial dapat menyebar ke kripto.",
	},
	Energy: {
		Crypto:  "Lonjakan harga energi meningkatkan biaya mining dan melemahkan sentimen risk-on.",
		Gold:    "Harga energi tinggi dapat meningkatkan inflasi, mendukung emas.",
		Outlook: "Pasar energi ketat berpotensi mempertahankan inflasi tinggi; ekspektasi kebijakan moneter ketat bisa menjaga volatilitas pasar.",
	},
	Crypto: {
		Crypto:  "Berita langsung industri kripto bisa memicu reaksi cepat pada BTC dan altcoin.",
		Gold:    "Dampak ke emas cenderung terbatas kecuali mempengaruhi USD atau likuiditas global.",
		Outlook: "Perkembangan regulasi dan adopsi institusional tetap menjadi fokus; volatilitas kripto berpotensi tinggi dalam waktu dekat.",
	},
}

var genericImpact = Impact{
	Crypto:  "Belum terlihat katalis khusus; pasar kripto kemungkinan menunggu klarifikasi lanjutan.",
	Gold:    "Tidak ada pemicu langsung; perhatikan pergerakan USD dan yield untuk arah emas.",
	Outlook: "Pelaku pasar akan mengikuti rilis data dan headline berikutnya; volatilitas bisa meningkat jika muncul katalis baru.",
}

// Generic is the note used for any field no detected topic covers.
func Generic() Impact {
	return genericImpact
}

// ImpactOf returns the canned note for t.
func ImpactOf(t Topic) (Impact, bool) {
	i, ok := impacts[t]
	return i, ok
}
