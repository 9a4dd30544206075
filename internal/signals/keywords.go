package signals

// techKeywords is the canonical technology vocabulary matched against posting
// descriptions. Matching is case-insensitive on word boundaries; the canonical
// casing below is what ends up in the extracted list.
var techKeywords = []string{
	// Programming languages
	"Python", "Java", "JavaScript", "TypeScript", "Go", "Rust", "C++", "C#",
	"PHP", "Ruby", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl", "Dart",
	"Elixir", "Haskell", "Clojure",

	// Frameworks and libraries
	"React", "Angular", "Vue", "Django", "Flask", "FastAPI", "Spring",
	"Express", "Node.js", "Next.js", "Laravel", "Rails", "ASP.NET",
	"TensorFlow", "PyTorch", "Keras", "Scikit-learn", "Pandas", "NumPy",

	// Cloud and infrastructure
	"AWS", "Azure", "GCP", "Google Cloud", "Docker", "Kubernetes",
	"Terraform", "Ansible", "Jenkins", "GitLab CI", "GitHub Actions",
	"CircleCI", "Helm", "Istio", "OpenShift",

	// Databases
	"PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Cassandra",
	"DynamoDB", "Neo4j", "InfluxDB", "CouchDB", "SQLite", "Oracle",
	"SQL Server", "MariaDB",

	// DevOps and tooling
	"Git", "Linux", "Nginx", "Apache", "Grafana", "Prometheus", "ELK Stack",
	"Splunk", "Datadog", "New Relic", "Jira", "Confluence", "Postman",
	"Swagger",

	// AI/ML and data
	"Machine Learning", "Deep Learning", "NLP", "Computer Vision", "MLOps",
	"Data Science", "Big Data", "Spark", "Hadoop", "Kafka", "Airflow", "dbt",
	"Snowflake", "Databricks",

	// Frontend
	"HTML", "CSS", "SASS", "LESS", "Bootstrap", "Tailwind", "Material-UI",

	// Mobile
	"React Native", "Flutter", "iOS", "Android", "Xamarin",

	// Architecture
	"Microservices", "REST API", "GraphQL", "gRPC", "Blockchain", "Solidity",
	"Web3",
}

// urgentPatterns are regexes (applied to lowercased text) that indicate
// time-pressured hiring. They double as the weak-label source for the
// urgency classifier.
var urgentPatterns = []string{
	`\basap\b`,
	`\bimmediate\b`,
	`\bstart now\b`,
	`\bstart immediately\b`,
	`\burgent\b`,
	`\bquickly\b`,
	`\bfast.track\b`,
	`\bexpedite\b`,
	`\bhiring now\b`,
	`\bstart monday\b`,
	`\bstart this week\b`,
	`\bneed someone now\b`,
	`\bfill immediately\b`,
	`\bhigh priority\b`,
	`\btime.sensitive\b`,
	`\bcan you start\b`,
}

// painPointPatterns mark mentions of legacy systems, technical debt and other
// modernization pressure that signal a consulting opportunity.
var painPointPatterns = []string{
	`\blegacy system\b`,
	`\blegacy code\b`,
	`\blegacy\b`,
	`\btechnical debt\b`,
	`\btech debt\b`,
	`\brefactor\b`,
	`\bmodernize\b`,
	`\bmigrat\w+\b`,
	`\bold system\b`,
	`\boutdated\b`,
	`\bobsolete\b`,
	`\bdeprecated\b`,
	`\bintegration issues\b`,
	`\bintegration challenges\b`,
	`\bdata silos\b`,
	`\bmanual process\b`,
	`\bscalability issues\b`,
	`\bperformance issues\b`,
	`\btechnical challenges\b`,
	`\bredesign\b`,
	`\brevamp\b`,
}

var salaryPatterns = []string{
	`\$\d{1,3}(?:,\d{3})*(?:\s*-\s*\$?\d{1,3}(?:,\d{3})*)?k?\b`,
	`€\d{1,3}(?:,\d{3})*(?:\s*-\s*€?\d{1,3}(?:,\d{3})*)?k?\b`,
	`£\d{1,3}(?:,\d{3})*(?:\s*-\s*£?\d{1,3}(?:,\d{3})*)?k?\b`,
	`\d{1,3}(?:,\d{3})*\s*-\s*\d{1,3}(?:,\d{3})*\s*(?:USD|EUR|GBP|CAD)\b`,
}

var hourlyPatterns = []string{
	`\$\d{1,3}(?:\.\d{2})?(?:\s*-\s*\$?\d{1,3}(?:\.\d{2})?)?\s*/?\s*(?:hour|hr)\b`,
	`€\d{1,3}(?:\.\d{2})?(?:\s*-\s*€?\d{1,3}(?:\.\d{2})?)?\s*/?\s*(?:hour|hr)\b`,
	`£\d{1,3}(?:\.\d{2})?(?:\s*-\s*£?\d{1,3}(?:\.\d{2})?)?\s*/?\s*(?:hour|hr)\b`,
}

var equityPatterns = []string{
	`\bequity\b`,
	`\bstock options\b`,
	`\brsus?\b`,
	`\bownership\b`,
	`\bshares\b`,
	`\bvesting\b`,
}

var budgetPhrasePatterns = []string{
	`\bcompetitive salary\b`,
	`\bmarket rate\b`,
	`\bcommensurate with experience\b`,
	`\bdepending on experience\b`,
	`\bnegotiable\b`,
	`\btop of market\b`,
	`\babove market\b`,
}
