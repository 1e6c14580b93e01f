package smd

// AU is one astronomical unit in kilometers.
const AU = 1.49597870700e8

// Predefined celestial bodies, constants grounded on the teacher's
// celestial.go (GM, radius, axial tilt, ecliptic inclination, SOI, J2-J4).

// Sun is our closest star.
var Sun = CelestialBody{name: "Sun", radius: 695700, heliodAU: -1, μ: 1.32712440017987e11}

// Mercury, added for completeness of the inner solar system.
var Mercury = CelestialBody{name: "Mercury", radius: 2439.7, heliodAU: 57909050, μ: 2.2032e4, tilt: 0.034, incl: 7.005, SOI: 1.12e5}

// Venus is poisonous.
var Venus = CelestialBody{name: "Venus", radius: 6051.8, heliodAU: 108208601, μ: 3.24858599e5, tilt: 117.36, incl: 3.39458, SOI: 0.616e6, J2: 0.000027}

// Earth is home.
var Earth = CelestialBody{name: "Earth", radius: 6378.1363, heliodAU: 149598023, μ: 3.98600433e5, tilt: 23.4, incl: 0.00005, SOI: 924645.0, J2: 1082.6269e-6, J3: -2.5324e-6, J4: -1.6204e-6}

// Moon, Earth's only natural satellite. GM from DE-series ephemerides.
var Moon = CelestialBody{name: "Moon", radius: 1737.4, heliodAU: 149598023, μ: 4902.800066, tilt: 6.68, incl: 5.145, SOI: 66183.0, J2: 202.7e-6}

// Mars is the vacation place.
var Mars = CelestialBody{name: "Mars", radius: 3396.19, heliodAU: 227939282.5616, μ: 4.28283100e4, tilt: 25.19, incl: 1.85, SOI: 576000, J2: 1964e-6, J3: 36e-6, J4: -18e-6}

// Jupiter is big.
var Jupiter = CelestialBody{name: "Jupiter", radius: 71492.0, heliodAU: 778298361, μ: 1.266865361e8, tilt: 3.13, incl: 1.30326966, SOI: 48.2e6, J2: 0.01475, J4: -0.00058}

// Saturn floats and that's really cool.
var Saturn = CelestialBody{name: "Saturn", radius: 60268.0, heliodAU: 1429394133, μ: 3.7931208e7, tilt: 0.93, incl: 2.485, J2: 0.01645, J4: -0.001}

// Uranus is no joke.
var Uranus = CelestialBody{name: "Uranus", radius: 25559.0, heliodAU: 2875038615, μ: 5.7939513e6, tilt: 1.02, incl: 0.773, J2: 0.012}

// Neptune, the last real planet.
var Neptune = CelestialBody{name: "Neptune", radius: 24764.0, heliodAU: 4504449769, μ: 6.835100e6, tilt: 28.32, incl: 1.767975, J2: 0.004}

// Pluto is not a planet and had that down ranking coming.
var Pluto = CelestialBody{name: "Pluto", radius: 1151.0, heliodAU: 5915799000, μ: 9. * 1e2, tilt: 118.0, incl: 17.14216667, SOI: 1}
