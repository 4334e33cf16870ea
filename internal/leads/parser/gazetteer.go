package parser

// provinces lists the 81 Turkish provinces by their official names.
var provinces = []string{
	"Adana", "Adıyaman", "Afyonkarahisar", "Ağrı", "Aksaray", "Amasya", "Ankara", "Antalya",
	"Ardahan", "Artvin", "Aydın", "Balıkesir", "Bartın", "Batman", "Bayburt", "Bilecik",
	"Bingöl", "Bitlis", "Bolu", "Burdur", "Bursa", "Çanakkale", "Çankırı", "Çorum",
	"Denizli", "Diyarbakır", "Düzce", "Edirne", "Elazığ", "Erzincan", "Erzurum", "Eskişehir",
	"Gaziantep", "Giresun", "Gümüşhane", "Hakkari", "Hatay", "Iğdır", "Isparta", "İstanbul",
	"İzmir", "Kahramanmaraş", "Karabük", "Karaman", "Kars", "Kastamonu", "Kayseri", "Kilis",
	"Kırıkkale", "Kırklareli", "Kırşehir", "Kocaeli", "Konya", "Kütahya", "Malatya", "Manisa",
	"Mardin", "Mersin", "Muğla", "Muş", "Nevşehir", "Niğde", "Ordu", "Osmaniye",
	"Rize", "Sakarya", "Samsun", "Şanlıurfa", "Siirt", "Sinop", "Şırnak", "Sivas",
	"Tekirdağ", "Tokat", "Trabzon", "Tunceli", "Uşak", "Van", "Yalova", "Yozgat",
	"Zonguldak",
}

// shortNames are colloquial names that show up in chat text as often as
// the official ones.
var shortNames = []string{"Urfa", "Afyon", "Maraş", "Antep", "Tarsus"}

// gazetteer indexes every known place by its folded spelling.
type gazetteer map[string]string

func newGazetteer() gazetteer {
	g := make(gazetteer, len(provinces)+len(shortNames))
	for _, p := range provinces {
		g[fold(p)] = p
	}
	for _, n := range shortNames {
		g[fold(n)] = n
	}
	return g
}

func (g gazetteer) lookup(word string) (string, bool) {
	name, ok := g[fold(word)]
	return name, ok
}
