package registry

import "prensa-feed/internal/domain/entity"

// defaultSources is the built-in catalog. Every feed here is a public
// Spanish-language RSS endpoint; locale drives month-name resolution when
// normalizing non-ISO dates.
var defaultSources = []entity.FeedSource{
	{
		Key:        "bbc_mundo",
		Name:       "BBC Mundo",
		FeedURL:    "https://feeds.bbci.co.uk/mundo/rss.xml",
		Locale:     "es",
		WebsiteURL: "https://www.bbc.com/mundo",
		Region:     "Internacional",
	},
	{
		Key:        "cnn_espanol",
		Name:       "CNN en Español",
		FeedURL:    "https://cnnespanol.cnn.com/feed/",
		Locale:     "es",
		WebsiteURL: "https://cnnespanol.cnn.com",
		Region:     "Internacional",
	},
	{
		Key:        "el_comercio_peru",
		Name:       "El Comercio Perú",
		FeedURL:    "https://elcomercio.pe/rss/portada.xml",
		Locale:     "es",
		WebsiteURL: "https://elcomercio.pe",
		Region:     "Perú",
	},
	{
		Key:        "rpp_noticias",
		Name:       "RPP Noticias",
		FeedURL:    "https://rpp.pe/noticias/rss",
		Locale:     "es",
		WebsiteURL: "https://rpp.pe",
		Region:     "Perú",
	},
	{
		Key:        "peru21",
		Name:       "Perú21",
		FeedURL:    "https://peru21.pe/rss/portada.xml",
		Locale:     "es",
		WebsiteURL: "https://peru21.pe",
		Region:     "Perú",
	},
	{
		Key:        "el_tiempo",
		Name:       "El Tiempo Colombia",
		FeedURL:    "https://www.eltiempo.com/rss",
		Locale:     "es",
		WebsiteURL: "https://www.eltiempo.com",
		Region:     "Colombia",
	},
	{
		Key:        "el_tiempo_mundo",
		Name:       "El Tiempo Mundo",
		FeedURL:    "https://www.eltiempo.com/rss/mundo.xml",
		Locale:     "es",
		WebsiteURL: "https://www.eltiempo.com",
		Region:     "Colombia",
	},
	{
		Key:        "elpais_portada",
		Name:       "El País Portada",
		FeedURL:    "https://feeds.elpais.com/mrss-s/pages/ep/site/elpais.com/portada",
		Locale:     "es",
		WebsiteURL: "https://elpais.com",
		Region:     "España",
	},
	{
		Key:        "clarin",
		Name:       "Clarín Argentina",
		FeedURL:    "https://www.clarin.com/rss/lo-ultimo/",
		Locale:     "es",
		WebsiteURL: "https://www.clarin.com",
		Region:     "Argentina",
	},
	{
		Key:        "infobae",
		Name:       "Infobae Argentina",
		FeedURL:    "https://www.infobae.com/feeds/rss/",
		Locale:     "es",
		WebsiteURL: "https://www.infobae.com",
		Region:     "Argentina",
	},
	{
		Key:        "diario_libre",
		Name:       "Diario Libre RD",
		FeedURL:    "https://www.diariolibre.com/servicios/rss",
		Locale:     "es",
		WebsiteURL: "https://www.diariolibre.com",
		Region:     "República Dominicana",
	},
	{
		Key:        "diario_libre_portada",
		Name:       "Diario Libre Portada",
		FeedURL:    "https://www.diariolibre.com/rss/portada.xml",
		Locale:     "es",
		WebsiteURL: "https://www.diariolibre.com",
		Region:     "República Dominicana",
	},
	{
		Key:        "diario_libre_economia",
		Name:       "Diario Libre Economía",
		FeedURL:    "https://www.diariolibre.com/rss/economia.xml",
		Locale:     "es",
		WebsiteURL: "https://www.diariolibre.com",
		Region:     "República Dominicana",
	},
	{
		Key:        "diario_libre_politica",
		Name:       "Diario Libre Política",
		FeedURL:    "https://www.diariolibre.com/rss/politica.xml",
		Locale:     "es",
		WebsiteURL: "https://www.diariolibre.com",
		Region:     "República Dominicana",
	},
	{
		Key:        "el_universal",
		Name:       "El Universal México",
		FeedURL:    "https://www.eluniversal.com.mx/rss.xml",
		Locale:     "es",
		WebsiteURL: "https://www.eluniversal.com.mx",
		Region:     "México",
	},
	{
		Key:        "elpais_america",
		Name:       "El País América",
		FeedURL:    "https://feeds.elpais.com/mrss-s/pages/ep/site/elpais.com/america",
		Locale:     "es",
		WebsiteURL: "https://elpais.com/america",
		Region:     "México",
	},
}

// defaultReliable lists sources that consistently serve valid feeds; batch
// runs are restricted to these.
var defaultReliable = []string{
	"bbc_mundo",
	"el_tiempo_mundo",
	"elpais_portada",
	"clarin",
	"diario_libre_portada",
	"diario_libre_economia",
	"diario_libre_politica",
}
