package resume

// Skill categories assigned by ClassifySkill.
const (
	CategoryTechnical = "Technical"
	CategoryTool      = "Tool"
	CategoryLanguage  = "Language"
	CategorySoft      = "Soft"
)

// TechnicalSkills are programming languages, frameworks and engineering disciplines.
var TechnicalSkills = map[string]struct{}{
	"go": {}, "golang": {}, "python": {}, "java": {}, "javascript": {}, "typescript": {},
	"c": {}, "c++": {}, "c#": {}, "rust": {}, "ruby": {}, "php": {}, "kotlin": {},
	"swift": {}, "scala": {}, "elixir": {}, "haskell": {}, "r": {}, "matlab": {},
	"sql": {}, "nosql": {}, "graphql": {}, "html": {}, "css": {}, "sass": {},
	"react": {}, "angular": {}, "vue": {}, "svelte": {}, "next.js": {}, "node.js": {},
	"node": {}, "express": {}, "django": {}, "flask": {}, "fastapi": {}, "spring": {},
	"rails": {}, ".net": {}, "gin": {}, "grpc": {}, "rest": {}, "microservices": {},
	"pandas": {}, "numpy": {}, "pytorch": {}, "tensorflow": {}, "spark": {},
	"machine learning": {}, "deep learning": {}, "nlp": {}, "data structures": {},
	"algorithms": {}, "distributed systems": {}, "concurrency": {}, "testing": {},
	"bash": {}, "shell": {}, "linux": {}, "networking": {}, "security": {},
}

// ToolSkills are products and platforms used while building software.
var ToolSkills = map[string]struct{}{
	"git": {}, "github": {}, "gitlab": {}, "docker": {}, "kubernetes": {}, "k8s": {},
	"terraform": {}, "ansible": {}, "jenkins": {}, "circleci": {}, "aws": {}, "gcp": {},
	"azure": {}, "postgres": {}, "postgresql": {}, "mysql": {}, "sqlite": {},
	"mongodb": {}, "redis": {}, "kafka": {}, "rabbitmq": {}, "elasticsearch": {},
	"prometheus": {}, "grafana": {}, "datadog": {}, "jira": {}, "confluence": {},
	"figma": {}, "excel": {}, "tableau": {}, "salesforce": {}, "vscode": {}, "vim": {},
	"nginx": {}, "linux servers": {}, "snowflake": {}, "airflow": {}, "dbt": {},
}

// HumanLanguages are spoken languages listed as skills.
var HumanLanguages = map[string]struct{}{
	"english": {}, "spanish": {}, "french": {}, "german": {}, "italian": {},
	"portuguese": {}, "mandarin": {}, "chinese": {}, "cantonese": {}, "japanese": {},
	"korean": {}, "hindi": {}, "arabic": {}, "russian": {}, "dutch": {}, "polish": {},
	"turkish": {}, "vietnamese": {}, "swedish": {}, "hebrew": {}, "yoruba": {},
	"swahili": {}, "ukrainian": {}, "greek": {},
}

// BulletGlyphs prefix bullet lines.
var BulletGlyphs = []string{"-", "*", "•", "–", "—", "·", "▪", "◦", "●", "►"}
