package prompt

import "github.com/futig/course-backend/internal/entity"

// Labels are the document and history labels of one language
type Labels struct {
	Title       string
	Duration    string
	Audience    string
	Difficulty  string
	Chapters    string
	Credit      string
	Objectives  string
	ChapterList string
	Quiz        string
	Outline     string
}

type templateSet struct {
	refine         string
	outline        string
	outlineTail    string
	difficultyLine string
	objectivesLine string
	chapter        string
	quiz           string
	markers        []string
	labels         Labels
}

var templateSets = map[entity.PipelineMode]templateSet{
	entity.PipelineModePlan:    frenchTemplates,
	entity.PipelineModeRefined: englishTemplates,
}

var frenchTemplates = templateSet{
	refine: `Tu es Prompter. Rédige une consigne détaillée pour générer le plan d'un cours à partir de ces informations : 1) Titre : %s 2) Public concerné : %s 3) Niveau de difficulté : %s 4) Nombre de chapitres : %d 5) Durée : %s 6) Crédits : %s. Chaque chapitre du plan doit commencer par le mot "Chapitre".`,
	outline: `Crée un plan complet et très détaillé pour une formation intitulée "%s".

Détails :
- Durée : %s
- Public concerné : %s
- Nombre de chapitres : %d
`,
	difficultyLine: "- Niveau de difficulté : %s\n",
	objectivesLine: "- Objectifs pédagogiques : %s\n",
	outlineTail: `
Le plan doit inclure :
1. Les prérequis nécessaires pour suivre cette formation.
2. L'objectif final de la formation.
3. Une liste des chapitres avec :
   - Un titre pour chaque chapitre, sur sa propre ligne commençant par "Chapitre".
   - Une description très détaillée pour chaque chapitre (6 à 8 lignes).
   - Une énumération des sous-chapitres avec leurs titres et une brève explication.
4. Une conclusion résumant les points clés de la formation.
`,
	chapter: `Crée un contenu extrêmement détaillé et structuré pour le chapitre : "%s" de la formation "%s" (public : %s, niveau : %s).

Le contenu doit respecter les points suivants :
1. Une introduction détaillée expliquant les concepts clés abordés.
2. Des sous-chapitres organisés de la manière suivante :
   - Chaque sous-chapitre doit avoir un titre clair.
   - Une explication détaillée du concept abordé.
   - Des sous-sections avec des explications approfondies et des exemples concrets.
   - Des cas d'usage réels et des scénarios pratiques illustrant les concepts.
   - Des illustrations ou des analogies pour clarifier les concepts complexes.
3. Des blocs de code formatés comme exemples pratiques lorsque le sujet s'y prête, avec explications détaillées.
4. Des exercices pratiques pour chaque sous-chapitre, avec des instructions claires.
5. Une étude de cas complète couvrant les concepts du chapitre, avec une solution détaillée.
6. Une section "Bonnes pratiques" expliquant comment appliquer les concepts dans des situations réelles.
7. Une conclusion récapitulant les points essentiels du chapitre et suggérant des lectures complémentaires.
`,
	quiz: `Générez un quiz de %d questions à choix multiples (QCM) basé sur le contenu suivant :

%s

Chaque question doit être claire, bien formulée et contextuelle. Fournissez 4 options de réponse, avec une seule bonne réponse.
Format attendu :
Question : ...
A. Option 1
B. Option 2
C. Option 3
D. Option 4
Réponse : ...
`,
	markers: []string{"Chapitre"},
	labels: Labels{
		Title:       "Titre",
		Duration:    "Durée",
		Audience:    "Public concerné",
		Difficulty:  "Niveau de difficulté",
		Chapters:    "Nombre de chapitres",
		Credit:      "Crédits",
		Objectives:  "Objectifs",
		ChapterList: "Liste des chapitres",
		Quiz:        "Quiz",
		Outline:     "Plan du cours",
	},
}

var englishTemplates = templateSet{
	refine: `You are Prompter. Generate a detailed prompt for Tabler using these inputs: 1) Course Name: %s 2) Target Audience Edu Level: %s 3) Course Difficulty Level: %s 4) No. of Modules: %d 5) Course Duration: %s 6) Course Credit: %s. The prompt must ask for an outline in which every module starts on its own line with the word "Module".`,
	outline: `Create a complete and detailed outline for a course titled "%s".

Details:
- Duration: %s
- Target audience: %s
- Number of modules: %d
`,
	difficultyLine: "- Difficulty level: %s\n",
	objectivesLine: "- Learning objectives: %s\n",
	outlineTail: `
The outline must include:
1. The prerequisites for the course.
2. The final learning objective.
3. A list of modules, each starting on its own line with "Module", with a detailed description and its sub-topics.
4. A conclusion summarising the key points.
`,
	chapter: `Generate detailed content for %s of the course: %s (audience: %s, level: %s). The module should include an introduction, main content, examples, and a summary.`,
	quiz: `Generate a quiz of %d multiple-choice questions based on the following content:

%s

Each question must be clear and contextual. Provide 4 answer options with exactly one correct answer.
Expected format:
Question: ...
A. Option 1
B. Option 2
C. Option 3
D. Option 4
Answer: ...
`,
	markers: []string{"Module"},
	labels: Labels{
		Title:       "Course Name",
		Duration:    "Course Duration",
		Audience:    "Target Audience Edu Level",
		Difficulty:  "Course Difficulty Level",
		Chapters:    "No. of Modules",
		Credit:      "Course Credit",
		Objectives:  "Objectives",
		ChapterList: "Modules",
		Quiz:        "Quiz",
		Outline:     "Course Outline",
	},
}
